// Package javascript bundles the site's javascript entry points with
// esbuild, emitting content-hashed filenames so builds cache-bust
// themselves.
package javascript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RooseveltAdvisors/RooseveltAdvisors.github.io/config"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CompileTargets bundles every manifest javascript target and returns
// the public path of each emitted bundle, keyed by target name.
func CompileTargets(targets map[string]config.JavascriptTarget) (map[string]string, error) {
	emitted := make(map[string]string, len(targets))
	for name, target := range targets {
		publicPath, err := compileTarget(target)
		if err != nil {
			return nil, errors.Wrapf(err, "bundling %s", name)
		}
		log.WithFields(log.Fields{"target": name, "path": publicPath}).Info("bundled javascript")
		emitted[name] = publicPath
	}
	return emitted, nil
}

func compileTarget(target config.JavascriptTarget) (string, error) {
	result := api.Build(api.BuildOptions{
		EntryPoints:       []string{target.Source},
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Engines: []api.Engine{
			{Name: api.EngineChrome, Version: "100"},
			{Name: api.EngineFirefox, Version: "100"},
			{Name: api.EngineSafari, Version: "15"},
			{Name: api.EngineEdge, Version: "100"},
		},
		Sourcemap: api.SourceMapExternal,
		Write:     false,
		Outdir:    target.OutDir,
	})
	if len(result.Errors) > 0 {
		return "", errors.Errorf("esbuild: %s", result.Errors[0].Text)
	}

	// Emit bundles before source maps so each map can pick up the
	// hash of the bundle it belongs to.
	var bundles, maps []api.OutputFile
	for _, out := range result.OutputFiles {
		if strings.EqualFold(filepath.Ext(out.Path), ".map") {
			maps = append(maps, out)
		} else {
			bundles = append(bundles, out)
		}
	}

	var publicPath string
	srcToHash := make(map[string]string)

	for _, out := range append(bundles, maps...) {
		dir := filepath.Dir(out.Path)
		base := filepath.Base(out.Path)
		ext := base[strings.Index(base, "."):]
		stem := base[:len(base)-len(ext)]
		isMap := ext == ".js.map"

		var hash string
		if isMap {
			hash = srcToHash[stem]
			if hash == "" {
				return "", errors.Errorf("source map %s has no matching bundle", base)
			}
		} else {
			hash = strings.ReplaceAll(out.Hash, "/", "")
			srcToHash[stem] = hash
		}

		name := fmt.Sprintf("%s_%s%s", stem, hash, ext)
		contents := out.Contents
		if !isMap {
			contents = append(contents, []byte(fmt.Sprintf("\n//# sourceMappingURL=%s.map", name))...)
		}

		outPath := filepath.Join(dir, name)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return "", errors.WithStack(err)
		}
		if err := os.WriteFile(outPath, contents, 0644); err != nil {
			return "", errors.Wrapf(err, "writing %s", outPath)
		}

		if !isMap {
			publicPath = "/" + filepath.ToSlash(filepath.Join(target.OutDir, name))
		}
	}

	return publicPath, nil
}
