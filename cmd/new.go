package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/content"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold new content",
}

var newPostCmd = &cobra.Command{
	Use:   "post [title]",
	Short: "Scaffold a new draft blog post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		slug := content.Slugify(title)
		if slug == "" {
			return errors.Errorf("title %q produces an empty slug", title)
		}

		path := filepath.Join("pages", "blog", slug+".md")
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("%s already exists", path)
		}

		matter := content.Matter{
			Title: title,
			Date:  time.Now().Format("2006-01-02"),
			Draft: true,
		}

		doc, err := marshalFrontMatter(matter)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return errors.WithStack(err)
		}
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return errors.WithStack(err)
		}

		log.WithField("path", path).Info("created draft post")
		return nil
	},
}

// marshalFrontMatter renders the matter between --- delimiters with an
// empty body below it.
func marshalFrontMatter(matter content.Matter) ([]byte, error) {
	fm, err := yaml.Marshal(matter)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	return buf.Bytes(), nil
}

func init() {
	newCmd.AddCommand(newPostCmd)
	rootCmd.AddCommand(newCmd)
}
