// Package admin builds the CV listing shown to the site administrator.
package admin

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio-backend/internal/cvs"
	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/telemetry"
)

// DefaultSignTTL is how long generated download links stay valid.
const DefaultSignTTL = 7 * 24 * time.Hour

// Row is a CV record paired with a usable download URL.
type Row struct {
	cvs.Record
	FileURL string `json:"file_url"`
}

// Lister assembles the admin listing, resolving a signed download URL per
// record.
type Lister struct {
	Repo      cvs.Repo
	Blobs     object.BlobStore
	Container string
	SignTTL   time.Duration
}

func (l *Lister) ttl() time.Duration {
	if l.SignTTL > 0 {
		return l.SignTTL
	}
	return DefaultSignTTL
}

// Rows returns every CV newest first. URL resolution failures degrade that
// row's link to "#" instead of failing the listing.
func (l *Lister) Rows(ctx context.Context) ([]Row, error) {
	recs, err := l.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, rec := range recs {
		i, rec := i, rec
		g.Go(func() error {
			rows[i] = Row{Record: rec, FileURL: l.resolveURL(gctx, rec)}
			return nil
		})
	}
	g.Wait()
	return rows, nil
}

func (l *Lister) resolveURL(ctx context.Context, rec cvs.Record) string {
	if rec.FileURL != "" {
		return rec.FileURL
	}
	if rec.FilePath == "" {
		return "#"
	}
	url, err := l.Blobs.CreateSignedURL(ctx, l.Container, rec.FilePath, l.ttl())
	if err != nil {
		telemetry.Warn("admin.sign_url.failed", map[string]any{
			"id":    rec.ID,
			"key":   rec.FilePath,
			"error": err.Error(),
		})
		return "#"
	}
	return url
}
