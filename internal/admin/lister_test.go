package admin

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"portfolio-backend/internal/cvs"
	"portfolio-backend/internal/shared/storage/object"
)

type stubRepo struct {
	recs []cvs.Record
	err  error
}

func (r *stubRepo) Insert(ctx context.Context, rec cvs.Record) error { return nil }

func (r *stubRepo) ListAll(ctx context.Context) ([]cvs.Record, error) {
	return r.recs, r.err
}

type stubBlobs struct {
	failKeys map[string]bool
}

func (b *stubBlobs) Upload(ctx context.Context, container, key string, rd io.Reader, opts object.UploadOptions) error {
	return errors.New("not implemented")
}

func (b *stubBlobs) CreateSignedURL(ctx context.Context, container, key string, ttl time.Duration) (string, error) {
	if b.failKeys[key] {
		return "", errors.New("sign failed")
	}
	return "https://signed.example/" + container + "/" + key, nil
}

func (b *stubBlobs) ListContainers(ctx context.Context) ([]object.Container, error) {
	return nil, nil
}

func (b *stubBlobs) Open(ctx context.Context, container, key string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func TestRowsPreservesOrderAndSignsURLs(t *testing.T) {
	repo := &stubRepo{recs: []cvs.Record{
		{ID: "a", FilePath: "a.pdf", CreatedAt: time.Now()},
		{ID: "b", FilePath: "b.pdf", CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "c", FilePath: "c.pdf", CreatedAt: time.Now().Add(-2 * time.Hour)},
	}}
	l := &Lister{Repo: repo, Blobs: &stubBlobs{}, Container: "cvs"}

	rows, err := l.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, id := range []string{"a", "b", "c"} {
		if rows[i].ID != id {
			t.Errorf("rows[%d].ID = %q, want %q", i, rows[i].ID, id)
		}
		if rows[i].FileURL != "https://signed.example/cvs/"+id+".pdf" {
			t.Errorf("rows[%d].FileURL = %q", i, rows[i].FileURL)
		}
	}
}

func TestRowsDegradesFailedSignatures(t *testing.T) {
	repo := &stubRepo{recs: []cvs.Record{
		{ID: "a", FilePath: "a.pdf"},
		{ID: "b", FilePath: "b.pdf"},
	}}
	blobs := &stubBlobs{failKeys: map[string]bool{"a.pdf": true}}
	l := &Lister{Repo: repo, Blobs: blobs, Container: "cvs"}

	rows, err := l.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0].FileURL != "#" {
		t.Errorf("failed row url = %q, want #", rows[0].FileURL)
	}
	if rows[1].FileURL == "#" {
		t.Error("healthy row must keep its signed url")
	}
}

func TestRowsReusesStoredURL(t *testing.T) {
	repo := &stubRepo{recs: []cvs.Record{
		{ID: "a", FilePath: "a.pdf", FileURL: "https://stored.example/a.pdf"},
	}}
	blobs := &stubBlobs{failKeys: map[string]bool{"a.pdf": true}}
	l := &Lister{Repo: repo, Blobs: blobs, Container: "cvs"}

	rows, err := l.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0].FileURL != "https://stored.example/a.pdf" {
		t.Errorf("url = %q, want the stored one untouched", rows[0].FileURL)
	}
}

func TestRowsMissingFilePath(t *testing.T) {
	repo := &stubRepo{recs: []cvs.Record{{ID: "a"}}}
	l := &Lister{Repo: repo, Blobs: &stubBlobs{}, Container: "cvs"}

	rows, err := l.Rows(context.Background())
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if rows[0].FileURL != "#" {
		t.Errorf("url = %q, want #", rows[0].FileURL)
	}
}

func TestRowsPropagatesRepoError(t *testing.T) {
	l := &Lister{Repo: &stubRepo{err: errors.New("db down")}, Blobs: &stubBlobs{}}
	if _, err := l.Rows(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderTableEscapesFields(t *testing.T) {
	rows := []Row{{
		Record: cvs.Record{
			FirstName: "<script>alert(1)</script>",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "06",
			Domain:    `Design & "Dev"`,
			CreatedAt: time.Date(2025, 3, 14, 10, 30, 5, 0, time.UTC),
		},
		FileURL: "https://x.example/a.pdf?sig=`evil`",
	}}

	html := RenderTable(rows)
	if strings.Contains(html, "<script>") {
		t.Error("script tag must be escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag")
	}
	if !strings.Contains(html, "Design &amp; &quot;Dev&quot;") {
		t.Errorf("ampersand and quotes not escaped: %s", html)
	}
	if strings.Contains(html, "`") {
		t.Error("backticks must be stripped from attribute values")
	}
	if !strings.Contains(html, "14/03/2025 10:30:05") {
		t.Errorf("date missing: %s", html)
	}
	if !strings.Contains(html, `rel="noopener noreferrer"`) {
		t.Error("link must carry rel attributes")
	}
	if !strings.Contains(html, ">Ouvrir</a>") {
		t.Error("link label missing")
	}
	if !strings.Contains(html, "<td>Doe &lt;script&gt;") {
		t.Errorf("name cell should be last first: %s", html)
	}
	// Name, email, phone, domain, date, link.
	if got := strings.Count(html, "<td>"); got != 6 {
		t.Errorf("cells = %d, want 6: %s", got, html)
	}
}

func TestRenderTableEmpty(t *testing.T) {
	if got := RenderTable(nil); got != "" {
		t.Errorf("empty rows should render empty string, got %q", got)
	}
}
