package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/froyo-sdk/provider-sdk/pkg/source"
)

func newSourceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Inspect the github:OWNER/REPO[//SUBDIR] provider source grammar",
	}

	cmd.AddCommand(newSourceParseCommand())
	cmd.AddCommand(newSourceDeriveTagCommand())

	return cmd
}

func newSourceParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "parse <source>",
		Short:   "Parse a provider source string and print its owner/repo/subdir",
		Args:    cobra.ExactArgs(1),
		Example: `  froyoctl source parse github:froyo-sdk/providers//linux.pkg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gs, err := source.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("owner:  %s\n", gs.Owner)
			fmt.Printf("repo:   %s\n", gs.Repo)
			if gs.Subdir != "" {
				fmt.Printf("subdir: %s\n", gs.Subdir)
			}
			fmt.Printf("slug:   %s\n", gs.RepoSlug())
			return nil
		},
	}
}

func newSourceDeriveTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "derive-tag <provider> <version>",
		Short:   "Derive the release tag a provider's binary is published under",
		Args:    cobra.ExactArgs(2),
		Example: `  froyoctl source derive-tag pkgprovider v1.2.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := source.DeriveReleaseTag(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(tag)
			return nil
		},
	}
}
