package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gen2brain/beeep"
)

// Publisher stores a rendered note and returns where it went.
type Publisher interface {
	Publish(ctx context.Context, note Note) (string, error)
}

var sanitizeRe = regexp.MustCompile(`[\\/:*?"<>|]`)

// SanitizeTitle strips characters that are illegal in file names.
func SanitizeTitle(title string) string {
	title = strings.TrimLeft(strings.TrimSpace(title), ".")
	if title == "" {
		title = "untitled"
	}
	return sanitizeRe.ReplaceAllString(title, "_")
}

// VaultPublisher writes notes as markdown files under a vault directory,
// one subdirectory per folder. Publishing the same title again replaces
// the earlier note.
type VaultPublisher struct {
	root string
}

// NewVaultPublisher creates a publisher rooted at dir.
func NewVaultPublisher(dir string) *VaultPublisher {
	return &VaultPublisher{root: dir}
}

func (p *VaultPublisher) Publish(ctx context.Context, note Note) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.root == "" {
		return "", fmt.Errorf("publishing %q: vault directory not set", note.Title)
	}

	dir := filepath.Join(p.root, note.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating folder %s: %w", note.Folder, err)
	}

	path := filepath.Join(dir, SanitizeTitle(note.Title)+".md")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(note.Body), 0o644); err != nil {
		return "", fmt.Errorf("writing note: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replacing note: %w", err)
	}
	return path, nil
}

// Notifier tells the user a note is ready.
type Notifier interface {
	Notify(title, message string) error
}

// DesktopNotifier raises a desktop alert.
type DesktopNotifier struct{}

// NewDesktopNotifier names the application shown with each alert.
func NewDesktopNotifier(appName string) DesktopNotifier {
	beeep.AppName = appName
	return DesktopNotifier{}
}

func (DesktopNotifier) Notify(title, message string) error {
	if err := beeep.Alert(title, message, ""); err != nil {
		return fmt.Errorf("desktop alert: %w", err)
	}
	return nil
}

// NoopNotifier discards notifications.
type NoopNotifier struct{}

func (NoopNotifier) Notify(string, string) error { return nil }
