// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rmd2tex/internal/platform"
)

const gitBridgeBase = "https://git.overleaf.com/"

var uploadCmd = &cobra.Command{
	Use:   "upload <submission-dir>",
	Short: "Push a submission directory to an Overleaf project",
	Long: `Upload syncs the submission directory into an Overleaf project through
its git bridge. The git token is read from ` + credentialsDir + platform.KeyGitToken + `;
the project is taken from --project or ` + credentialsDir + platform.KeyProjectID + `.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	token := loadedCredentials[platform.KeyGitToken]
	if token == "" {
		return fmt.Errorf("no git token: create %s%s", credentialsDir, platform.KeyGitToken)
	}

	project, _ := cmd.Flags().GetString("project")
	if project == "" {
		project = loadedCredentials[platform.KeyProjectID]
	}
	if project == "" {
		return fmt.Errorf("no project: pass --project or create %s%s", credentialsDir, platform.KeyProjectID)
	}

	projectURL := project
	if !strings.Contains(project, "://") {
		projectURL = gitBridgeBase + project
	}

	uploader, err := platform.NewUploader()
	if err != nil {
		return err
	}
	if err := uploader.Upload(projectURL, token, args[0]); err != nil {
		return err
	}

	fmt.Printf("uploaded: %s -> %s\n", args[0], projectURL)
	return nil
}

func init() {
	uploadCmd.Flags().String("project", "", "Overleaf project ID or full git bridge URL")

	rootCmd.AddCommand(uploadCmd)
}
