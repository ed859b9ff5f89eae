package ingest

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/rs/zerolog/log"

	"github.com/testforge-hq/testforge/pkg/model"
)

// Ingestor clones repositories and discovers test sources in them.
type Ingestor struct {
	baseDir string
	token   string
}

// New creates an ingestor that clones under baseDir, authenticating
// with token when one is set.
func New(baseDir, token string) *Ingestor {
	return &Ingestor{
		baseDir: baseDir,
		token:   token,
	}
}

// RepoInfo contains parsed repository information.
type RepoInfo struct {
	Owner    string
	Name     string
	URL      string
	CloneURL string
	Branch   string
}

// CloneResult contains the result of a clone operation.
type CloneResult struct {
	Path      string
	CommitSHA string
	Branch    string
}

// Source is a test source discovered inside a repository: a Postman
// collection or an HTML page.
type Source struct {
	Path    string // absolute path inside the clone
	RelPath string // path relative to the repository root
	Kind    model.SourceKind
}

// ParseRepoURL parses a GitHub URL and returns repo info. Both SSH
// (git@github.com:owner/repo.git) and https forms are accepted; an
// https /tree/<branch> suffix selects that branch.
func ParseRepoURL(rawURL string) (*RepoInfo, error) {
	if strings.HasPrefix(rawURL, "git@") {
		parts := strings.Split(rawURL, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid SSH URL format: %s", rawURL)
		}
		pathParts := strings.Split(strings.TrimSuffix(parts[1], ".git"), "/")
		if len(pathParts) != 2 {
			return nil, fmt.Errorf("invalid repo path: %s", parts[1])
		}
		return &RepoInfo{
			Owner:    pathParts[0],
			Name:     pathParts[1],
			URL:      rawURL,
			CloneURL: fmt.Sprintf("https://github.com/%s/%s.git", pathParts[0], pathParts[1]),
			Branch:   "main",
		}, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	if parsed.Host != "github.com" {
		return nil, fmt.Errorf("only github.com URLs are supported, got: %s", parsed.Host)
	}

	pathParts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(pathParts) < 2 {
		return nil, fmt.Errorf("invalid repo path: %s", parsed.Path)
	}

	info := &RepoInfo{
		Owner:  pathParts[0],
		Name:   strings.TrimSuffix(pathParts[1], ".git"),
		URL:    rawURL,
		Branch: "main",
	}
	if len(pathParts) >= 4 && pathParts[2] == "tree" {
		info.Branch = pathParts[3]
	}
	info.CloneURL = fmt.Sprintf("https://github.com/%s/%s.git", info.Owner, info.Name)

	return info, nil
}

// Clone clones a repository to local storage. An existing clone of the
// same repo is replaced.
func (in *Ingestor) Clone(ctx context.Context, info *RepoInfo) (*CloneResult, error) {
	repoDir := filepath.Join(in.baseDir, info.Owner, info.Name)

	if _, err := os.Stat(repoDir); err == nil {
		log.Debug().Str("path", repoDir).Msg("removing existing clone")
		if err := os.RemoveAll(repoDir); err != nil {
			return nil, fmt.Errorf("failed to remove existing clone: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(repoDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	log.Info().
		Str("url", info.CloneURL).
		Str("path", repoDir).
		Msg("cloning repository")

	cloneOpts := &git.CloneOptions{
		URL:   info.CloneURL,
		Depth: 1, // Shallow clone for faster download
	}

	if in.token != "" {
		cloneOpts.Auth = &http.BasicAuth{
			Username: "git", // Can be anything for token auth
			Password: in.token,
		}
	}

	if info.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(info.Branch)
		cloneOpts.SingleBranch = true
	}

	repo, err := git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
	if err != nil {
		// If the branch doesn't exist, retry on the default branch.
		if strings.Contains(err.Error(), "reference not found") && info.Branch != "" {
			log.Debug().Str("branch", info.Branch).Msg("branch not found, trying default")
			cloneOpts.ReferenceName = ""
			cloneOpts.SingleBranch = false
			repo, err = git.PlainCloneContext(ctx, repoDir, false, cloneOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clone: %w", err)
		}
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	result := &CloneResult{
		Path:      repoDir,
		CommitSHA: head.Hash().String(),
		Branch:    head.Name().Short(),
	}

	log.Info().
		Str("commit", result.CommitSHA[:8]).
		Str("branch", result.Branch).
		Msg("clone complete")

	return result, nil
}

// FindSources walks a repository and returns the test sources it
// contains, in lexical path order.
func FindSources(repoPath string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(repoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			name := info.Name()
			if strings.HasPrefix(name, ".") || name == "node_modules" || name == "vendor" || name == "dist" {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := sourceKindFor(path)
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}
		sources = append(sources, Source{
			Path:    path,
			RelPath: relPath,
			Kind:    kind,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", repoPath, err)
	}

	return sources, nil
}

// sourceKindFor classifies a file by name: Postman collection exports
// are API sources, HTML pages are web sources.
func sourceKindFor(path string) (model.SourceKind, bool) {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(base, ".postman_collection.json"), base == "collection.json":
		return model.SourceAPI, true
	case strings.HasSuffix(base, ".html"), strings.HasSuffix(base, ".htm"):
		return model.SourceWeb, true
	}
	return "", false
}
