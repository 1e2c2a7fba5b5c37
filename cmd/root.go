package cmd

import (
	"os"
	"path/filepath"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/handlers"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	manifestPath  string
	includeDrafts bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "site",
	Short: "Personal website and blog generator",
	Long: `Builds and serves Jon Roosevelt's personal website: marketing
pages, the project showcase and the blog, from Markdown content and
plush templates declared in manifest.yaml.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&manifestPath, "manifest", "manifest.yaml", "site manifest file")
	rootCmd.PersistentFlags().BoolVar(&includeDrafts, "drafts", false, "include draft posts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// loadSite loads the manifest and the blog content and binds them into
// a handlers.Site ready for routing.
func loadSite() (*handlers.Site, error) {
	manifest, err := config.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	coll, err := content.Load(filepath.Join(manifest.ContentDir, "blog"), includeDrafts)
	if err != nil {
		return nil, err
	}

	log.WithField("posts", len(coll.Posts)).Debug("content loaded")
	return handlers.New(manifest, coll), nil
}
