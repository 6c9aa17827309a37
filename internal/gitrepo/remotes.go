package gitrepo

import (
	"context"
	"errors"
	"strings"
)

type Remote struct {
	Name     string `json:"name"`
	FetchURL string `json:"fetchUrl,omitempty"`
	PushURL  string `json:"pushUrl,omitempty"`
}

func remoteURL(ctx context.Context, dir, name string, push bool) (string, error) {
	args := []string{"remote", "get-url"}
	if push {
		args = append(args, "--push")
	}
	out, err := git(ctx, dir, append(args, name)...)
	return strings.TrimSpace(out), err
}

func ListRemotes(ctx context.Context, dir string) ([]Remote, error) {
	out, err := git(ctx, dir, "remote")
	if err != nil {
		return nil, err
	}
	remotes := []Remote{}
	for _, name := range strings.Fields(out) {
		r := Remote{Name: name}
		r.FetchURL, _ = remoteURL(ctx, dir, name, false)
		r.PushURL, _ = remoteURL(ctx, dir, name, true)
		remotes = append(remotes, r)
	}
	return remotes, nil
}

// Init turns dir into a repository.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, "init")
	return err
}

// SetRemoteURL adds the remote (default origin), or updates its URL when it
// exists.
func SetRemoteURL(ctx context.Context, dir, name, url string) error {
	name, url = strings.TrimSpace(name), strings.TrimSpace(url)
	if name == "" {
		name = "origin"
	}
	if url == "" {
		return errors.New("empty remote url")
	}
	if _, err := remoteURL(ctx, dir, name, false); err == nil {
		_, err := git(ctx, dir, "remote", "set-url", name, url)
		return err
	}
	_, err := git(ctx, dir, "remote", "add", name, url)
	return err
}
