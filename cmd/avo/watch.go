package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Regenerate .avo files whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watch(ctx, args)
		},
	}
}

func (a *app) watch(ctx context.Context, dirs []string) error {
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	patterns := make([]string, len(dirs))
	for i, dir := range dirs {
		if err := a.watchTree(watcher, dir); err != nil {
			return err
		}
		patterns[i] = filepath.Join(dir, "...")
	}

	files, err := a.avoFiles(patterns)
	if err != nil {
		return err
	}
	for _, path := range files {
		a.report(a.generateFile(path))
	}
	a.log.Printf("watching %s", strings.Join(dirs, ", "))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			a.handle(watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.report(err)
		}
	}
}

// handle regenerates the .avo file an event refers to. New directories are
// added to the watch list.
func (a *app) handle(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !a.cfg.Excluded(info.Name()) {
				a.report(a.watchTree(watcher, event.Name))
			}
			return
		}
	}
	if filepath.Ext(event.Name) != ".avo" {
		return
	}

	if err := a.generateFile(event.Name); err != nil {
		a.report(err)
		return
	}
	a.log.Printf("regenerated %s", a.cfg.OutputPath(event.Name))
}

// watchTree adds root and every directory below it that is not excluded.
func (a *app) watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && a.cfg.Excluded(d.Name()) {
			return filepath.SkipDir
		}
		a.debugf("watching %s", path)
		return watcher.Add(path)
	})
}
