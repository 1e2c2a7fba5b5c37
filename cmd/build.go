package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/handlers"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/javascript"
	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static site into the output directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := loadSite()
		if err != nil {
			return err
		}
		return runBuild(site)
	},
}

func runBuild(site *handlers.Site) error {
	outDir := site.Manifest.OutputDir
	log.WithField("out", outDir).Info("building static site")

	if err := os.RemoveAll(outDir); err != nil {
		return errors.Wrapf(err, "cleaning %s", outDir)
	}
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "creating %s", outDir)
	}

	if _, err := os.Stat("static"); err == nil {
		if err := copyDirContents("static", filepath.Join(outDir, "static")); err != nil {
			return errors.Wrap(err, "copying static assets")
		}
	}

	js, err := javascript.CompileTargets(site.Manifest.JavascriptTargets)
	if err != nil {
		return err
	}
	site.JS = js

	router, err := site.SetupRouter()
	if err != nil {
		return err
	}

	server := httptest.NewServer(router)
	defer server.Close()

	for _, route := range site.Routes() {
		if err := generateStaticPage(server, outDir, route); err != nil {
			log.WithError(err).WithField("route", route).Error("skipping page")
		}
	}

	if err := utils.GenerateSitemaps(site.Manifest.Site.Origin, outDir, site.Routes()); err != nil {
		return err
	}
	if err := utils.GenerateFeed(site.Manifest.Site, outDir, site.Recent); err != nil {
		return err
	}

	recentPath := filepath.Join(outDir, "data", "recent-posts.json")
	if err := content.WriteRecentFile(recentPath, site.Recent); err != nil {
		return err
	}

	log.WithField("pages", len(site.Routes())).Info("static site generated")
	return nil
}

// generateStaticPage fetches one route from the in-process server and
// writes the response as <route>/index.html under outDir.
func generateStaticPage(server *httptest.Server, outDir, route string) error {
	resp, err := http.Get(server.URL + route)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}

	filePath := filepath.Join(outDir, route, "index.html")
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	if err := os.WriteFile(filePath, body, 0644); err != nil {
		return errors.WithStack(err)
	}

	log.WithField("path", filePath).Debug("generated page")
	return nil
}

func copyDirContents(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return errors.WithStack(err)
		}
		dstPath := filepath.Join(dst, rel)

		if info.IsDir() {
			return os.MkdirAll(dstPath, os.ModePerm)
		}
		return copyFile(path, dstPath)
	})
}

func copyFile(src, dst string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(os.WriteFile(dst, input, 0644))
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
