package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		watch, _ := cmd.Flags().GetBool("watch")

		site, err := loadSite()
		if err != nil {
			return err
		}

		router, err := site.SetupRouter()
		if err != nil {
			return err
		}

		handler := &reloadingHandler{current: router}
		if watch {
			if err := watchAndReload(handler, site.Manifest.ContentDir); err != nil {
				return err
			}
		}

		log.WithField("port", port).Info("serving site")
		return http.ListenAndServe(":"+port, handler)
	},
}

// reloadingHandler swaps its inner handler atomically when the site is
// rebuilt in watch mode.
type reloadingHandler struct {
	mu      sync.RWMutex
	current http.Handler
}

func (h *reloadingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.current
	h.mu.RUnlock()
	current.ServeHTTP(w, r)
}

func (h *reloadingHandler) swap(next http.Handler) {
	h.mu.Lock()
	h.current = next
	h.mu.Unlock()
}

// watchAndReload watches the manifest, templates and content tree and
// rebuilds the router whenever any of them change.
func watchAndReload(handler *reloadingHandler, contentDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WithStack(err)
	}

	for _, root := range []string{"templates", contentDir} {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if info.IsDir() {
				return errors.WithStack(watcher.Add(path))
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	if err := watcher.Add(manifestPath); err != nil {
		return errors.WithStack(err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				log.WithField("path", event.Name).Info("change detected, reloading")

				site, err := loadSite()
				if err != nil {
					log.WithError(err).Error("reload failed")
					continue
				}
				router, err := site.SetupRouter()
				if err != nil {
					log.WithError(err).Error("reload failed")
					continue
				}
				handler.swap(router)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("watch error")
			}
		}
	}()

	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "port to run the server on")
	serveCmd.Flags().BoolP("watch", "w", false, "rebuild on content or template changes")
}
