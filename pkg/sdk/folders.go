package sdk

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/rethought/thirdlight-sdk-go/pkg/model"
	"github.com/rethought/thirdlight-sdk-go/pkg/response"
)

// LoadFolderTree walks the remote folder hierarchy and replaces the client's
// path cache with a fresh path -> folder id mapping. Paths are UNIX style
// with a trailing slash, e.g. "/beaches/broome/". Walking a large site takes
// one call per folder with children; the cache exists so this happens rarely.
//
// Concurrent loads are collapsed into a single remote walk. The cache is
// replaced wholesale on success and never partially visible. The returned
// map is a copy the caller may keep or mutate.
func (c *Client) LoadFolderTree(ctx context.Context) (map[string]string, error) {
	tree, err, _ := c.loadGroup.Do("folder-tree", func() (any, error) {
		idmap, err := c.walkFolders(ctx, "", "/")
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.folderTree = idmap
		c.mu.Unlock()

		zap.L().Info("folder tree loaded", zap.Int("folders", len(idmap)))
		return idmap, nil
	})
	if err != nil {
		return nil, err
	}

	loaded := tree.(map[string]string)
	out := make(map[string]string, len(loaded))
	for path, id := range loaded {
		out[path] = id
	}
	return out, nil
}

// walkFolders fetches the children of folderID ("" means the site root) and
// recurses into entries that have child containers. Each call accumulates
// into its own fresh map and merges the maps returned by its recursive calls.
func (c *Client) walkFolders(ctx context.Context, folderID, parentPath string) (map[string]string, error) {
	var (
		folders *response.Wrapped
		err     error
	)
	if folderID == "" {
		folders, err = c.Call(ctx, "Folders.GetTopLevelFolders", nil)
	} else {
		folders, err = c.Call(ctx, "Folders.GetContainersForParent", map[string]any{"containerId": folderID})
	}
	if err != nil {
		return nil, err
	}

	idmap := make(map[string]string)
	if folders == nil {
		return idmap, nil
	}

	out, err := folders.GetResponse("outParams")
	if err != nil {
		return nil, fmt.Errorf("folder listing under %q: %w", parentPath, err)
	}

	for id, raw := range out.Data() {
		meta, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		entry := model.FolderEntryFrom(meta)

		path := parentPath + entry.Name + "/"
		idmap[path] = id

		if entry.HasChildContainers {
			children, err := c.walkFolders(ctx, id, path)
			if err != nil {
				return nil, err
			}
			for childPath, childID := range children {
				idmap[childPath] = childID
			}
		}
	}

	return idmap, nil
}

// ResolveFolderID resolves a UNIX-style path such as "/beaches/broome" to a
// folder id. The folder tree is loaded on first use and when forceReload is
// set. Paths are normalized to end with a slash before lookup, so both forms
// resolve identically.
func (c *Client) ResolveFolderID(ctx context.Context, path string, forceReload bool) (string, error) {
	c.mu.RLock()
	loaded := c.folderTree != nil
	c.mu.RUnlock()

	if !loaded || forceReload {
		zap.L().Info("loading folder tree", zap.Bool("force", forceReload))
		if _, err := c.LoadFolderTree(ctx); err != nil {
			return "", err
		}
	}

	if !strings.HasSuffix(path, "/") {
		path += "/"
	}

	c.mu.RLock()
	id, ok := c.folderTree[path]
	c.mu.RUnlock()

	if !ok {
		return "", &UnknownFolderError{Path: path}
	}
	return id, nil
}

// InvalidateFolderCache drops the cached folder tree. The next resolution
// loads it from the remote again.
func (c *Client) InvalidateFolderCache() {
	c.mu.Lock()
	c.folderTree = nil
	c.mu.Unlock()
}
