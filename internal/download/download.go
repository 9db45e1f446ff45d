package download

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/nezhar/voicevault/internal/blob"
	"github.com/nezhar/voicevault/internal/classify"
)

// downloadFormat prefers audio-only streams and falls back through capped
// video qualities, matching what the ASR step can digest.
const downloadFormat = "bestaudio/best[height<=720][ext=mp4]/best[height<=720]/best[ext=mp4]/best"

// Download fetches the media behind url, names it after the source's title
// and stages it into blob storage under the entry's key prefix.
func (d *implDownloader) Download(ctx context.Context, rawURL, entryID string) (*Result, error) {
	if err := d.checkDomain(rawURL); err != nil {
		return nil, err
	}

	title, err := d.probeTitle(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	defer d.cleanupLocal(ctx, entryID)

	localPath, err := d.fetch(ctx, rawURL, entryID)
	if err != nil {
		return nil, err
	}

	filename := buildFilename(title, entryID, filepath.Ext(localPath))
	key := blob.Key(entryID, filename)
	if err := d.blob.Put(ctx, localPath, key, blob.ContentTypeForFile(filename)); err != nil {
		return nil, fmt.Errorf("stage download: %w", err)
	}

	d.logger.Info(ctx, "Entry %s: downloaded %q -> %s", entryID, title, key)
	return &Result{FileRef: key, Filename: filename}, nil
}

// checkDomain enforces the allow-list before any network traffic. The match
// is a substring check on the www-stripped host, so subdomains pass.
func (d *implDownloader) checkDomain(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return classify.Permanentf("invalid URL: %s", rawURL)
	}

	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	for _, domain := range d.cfg.Download.AllowedDomains {
		if strings.Contains(host, domain) {
			return nil
		}
	}

	return classify.Permanentf("unsupported URL domain: %s (supported: %s)",
		host, strings.Join(d.cfg.Download.AllowedDomains, ", "))
}

// probeTitle resolves the source title without downloading. Source-side
// failures (private video, removed video) surface here with yt-dlp's error
// text intact for classification.
func (d *implDownloader) probeTitle(ctx context.Context, rawURL string) (string, error) {
	out, err := d.executor.Execute(ctx, "yt-dlp",
		"--print", "title",
		"--skip-download",
		"--no-playlist",
		rawURL,
	)
	if err != nil {
		return "", fmt.Errorf("probe media title: %w", err)
	}

	title := strings.TrimSpace(out)
	if i := strings.IndexByte(title, '\n'); i >= 0 {
		title = strings.TrimSpace(title[:i])
	}
	return title, nil
}

func (d *implDownloader) fetch(ctx context.Context, rawURL, entryID string) (string, error) {
	if err := os.MkdirAll(d.cfg.Paths.Spool, 0o755); err != nil {
		return "", fmt.Errorf("create spool dir: %w", err)
	}

	args := []string{
		"-f", downloadFormat,
		"--max-filesize", strconv.FormatInt(d.cfg.Download.MaxFileBytes, 10),
		"-o", filepath.Join(d.cfg.Paths.Spool, entryID+".%(ext)s"),
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--socket-timeout", "30",
		"--retries", "3",
	}
	if d.cfg.Download.CookieFile != "" {
		args = append(args, "--cookies", d.cfg.Download.CookieFile)
	}
	args = append(args, rawURL)

	if _, err := d.executor.Execute(ctx, "yt-dlp", args...); err != nil {
		return "", fmt.Errorf("download media: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(d.cfg.Paths.Spool, entryID+".*"))
	if err != nil || len(matches) == 0 {
		// yt-dlp skips files over --max-filesize without failing.
		return "", classify.Permanentf("downloaded file not found (size may exceed the %d byte ceiling)", d.cfg.Download.MaxFileBytes)
	}

	return matches[0], nil
}

// cleanupLocal removes whatever the fetch left in the spool, complete or
// partial.
func (d *implDownloader) cleanupLocal(ctx context.Context, entryID string) {
	matches, err := filepath.Glob(filepath.Join(d.cfg.Paths.Spool, entryID+".*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			d.logger.Warn(ctx, "Failed to remove local download %s: %v", m, err)
		}
	}
}

func buildFilename(title, entryID, ext string) string {
	name := sanitizeTitle(title)
	if name == "" {
		name = "video_" + entryID
	}
	return name + ext
}

// sanitizeTitle keeps letters, digits, spaces, hyphens and underscores, and
// caps the result at 100 characters.
func sanitizeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}

	runes := []rune(strings.TrimSpace(b.String()))
	if len(runes) > 100 {
		runes = runes[:100]
	}
	return strings.TrimSpace(string(runes))
}
