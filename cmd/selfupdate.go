package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the owner/name repository releases are fetched from.
// Release builds set it with -ldflags "-X tstbuild/cmd.githubRepoSlug=owner/name".
var githubRepoSlug string

var errNoReleaseRepo = errors.New("no release repository configured")

// releaseSource finds and installs published releases.
type releaseSource interface {
	// Latest reports the newest release version and whether it is newer than current.
	Latest(ctx context.Context, current string) (string, bool, error)
	// Install replaces the executable at exe with the release found by Latest.
	Install(ctx context.Context, exe string) error
}

// For mocking in tests
var (
	newReleaseSource = func(slug string) releaseSource { return &githubReleases{slug: slug} }
	executablePath   = selfupdate.ExecutablePath
)

type githubReleases struct {
	slug    string
	release *selfupdate.Release
}

func (g *githubReleases) Latest(ctx context.Context, current string) (string, bool, error) {
	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(g.slug))
	if err != nil {
		return "", false, fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return "", false, fmt.Errorf("no release found in GitHub repository %s", g.slug)
	}
	g.release = latest
	return latest.Version(), !latest.LessOrEqual(current), nil
}

func (g *githubReleases) Install(ctx context.Context, exe string) error {
	if g.release == nil {
		return errors.New("no release detected")
	}
	return selfupdate.UpdateTo(ctx, g.release.AssetURL, g.release.AssetName, exe)
}

func newSelfUpdateCmd() *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Update tstbuild to the latest version",
		Long: `Checks for the latest release of tstbuild on GitHub and
updates the current binary if a newer version is found.

The repository is fixed at build time; --repo overrides it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if repo == "" {
				repo = githubRepoSlug
			}
			return runSelfUpdate(cmd, repo)
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub repository (owner/name) to fetch releases from")
	return cmd
}

func runSelfUpdate(cmd *cobra.Command, repo string) error {
	currentVersion := rootCmd.Version
	if currentVersion == "" || currentVersion == "dev" {
		return fmt.Errorf("cannot self-update a development version")
	}
	if repo == "" {
		return fmt.Errorf("%w: build with a repository slug or pass --repo owner/name", errNoReleaseRepo)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Current version: %s\n", currentVersion)
	fmt.Fprintln(out, "Checking for updates...")

	source := newReleaseSource(repo)
	latest, newer, err := source.Latest(ctx, currentVersion)
	if err != nil {
		return err
	}
	if !newer {
		fmt.Fprintf(out, "Current version (%s) is the latest.\n", currentVersion)
		return nil
	}

	fmt.Fprintf(out, "Updating to version %s...\n", latest)
	exe, err := executablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := source.Install(ctx, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}

	fmt.Fprintf(out, "Successfully updated to version %s\n", latest)
	return nil
}
