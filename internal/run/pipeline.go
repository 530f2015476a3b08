package run

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brogergvhs/r6scrape/internal/apireport"
	"github.com/brogergvhs/r6scrape/internal/browser"
	"github.com/brogergvhs/r6scrape/internal/capture"
	"github.com/brogergvhs/r6scrape/internal/config"
	"github.com/brogergvhs/r6scrape/internal/docs"
	"github.com/brogergvhs/r6scrape/internal/downloader"
	"github.com/brogergvhs/r6scrape/internal/manifest"
	"github.com/brogergvhs/r6scrape/internal/pagescrape"
	"github.com/brogergvhs/r6scrape/internal/site"
	"github.com/brogergvhs/r6scrape/internal/ui"
	"github.com/brogergvhs/r6scrape/internal/util"

	"github.com/google/uuid"
)

const (
	manifestFile    = "manifest.json"
	apiRequestsFile = "api_requests.json"
	requestsFile    = "requests"
)

type Summary struct {
	RunID         string
	Version       string
	Manifests     int
	Operators     int
	Seasons       int
	Ranks         int
	Assets        downloader.Result
	Requests      int
	MissingAssets []string
}

// Scrape runs the whole online pipeline once.
func (r *Runner) Scrape(ctx context.Context, creds config.Credentials) (*Summary, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}

	unlock, err := r.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	runID := uuid.NewString()
	log := r.log.WithRun(runID)
	log.Infof("Starting scrape of %s", r.cfg.StartURL)

	if err := util.ResetDir(r.cfg.LogDir); err != nil {
		return nil, err
	}

	rec := capture.NewRecorder(r.cfg.APIHostPrefix, log.With("capture"))

	res, err := r.browse(ctx, rec, creds, log)
	if err != nil {
		return nil, err
	}

	version := res.Version
	if version == "" {
		version = unknownVersion
	}

	urls := rec.ManifestURLs()
	downloads, err := r.downloadManifests(ctx, version, urls)
	if err != nil {
		return nil, err
	}

	src, err := manifest.LoadSources(downloads, urls, r.log)
	if err != nil {
		return nil, err
	}

	reqs := rec.APIRequests()
	if err := saveAPIRequests(filepath.Join(r.cfg.LogDir, apiRequestsFile), reqs); err != nil {
		return nil, err
	}

	sum, err := r.build(ctx, src, scrapedCards(res.Pages), reqs, creds.ProfileID)
	if err != nil {
		return nil, err
	}
	sum.RunID = runID
	sum.Version = version
	sum.Manifests = len(urls)

	return sum, nil
}

func (r *Runner) browse(ctx context.Context, rec *capture.Recorder, creds config.Credentials, log *ui.Logger) (browser.Result, error) {
	sess, err := r.launch(ctx, browser.Options{
		StartURL:          r.cfg.StartURL,
		LoginFramePrefix:  r.cfg.LoginFramePrefix,
		LogDir:            r.cfg.LogDir,
		UserAgent:         r.cfg.UserAgent,
		Headless:          r.cfg.Headless,
		NavigationTimeout: r.cfg.NavigationTimeout,
		Install:           r.install,
		Observer:          rec,
		Log:               log,
	})
	if err != nil {
		return browser.Result{}, err
	}

	res, err := sess.Run(ctx, creds, r.cfg.SearchTerm)
	closeErr := sess.Close()
	if err != nil {
		return res, fmt.Errorf("browser session: %w", err)
	}
	if closeErr != nil {
		log.Debugf("closing browser: %v", closeErr)
	}

	return res, nil
}

// downloadManifests stores the manifests of a version under a _tmp
// directory and moves it into place once every file is in.
func (r *Runner) downloadManifests(ctx context.Context, version string, urls []string) (string, error) {
	final := filepath.Join(r.cfg.DownloadsDir, version)
	tmp := final + "_tmp"

	util.CleanupUnfinishedTempFolders(r.cfg.DownloadsDir)
	if err := util.ResetDir(tmp); err != nil {
		return "", err
	}

	if _, err := r.dl.DownloadManifests(ctx, urls, tmp, r.cfg.ManifestTimeout, r.bar("manifests", "files")); err != nil {
		return "", err
	}
	r.Stats.TotalManifests.Add(int64(len(urls)))

	if err := os.RemoveAll(final); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("finalize downloads: %w", err)
	}

	return final, nil
}

// BuildFromDir runs the offline part of the pipeline on a directory of
// previously downloaded manifests. API requests recorded by the last scrape
// are reused when present.
func (r *Runner) BuildFromDir(ctx context.Context, dir string, profileID string) (*Summary, error) {
	unlock, err := r.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	src, err := manifest.LoadDir(dir, r.log)
	if err != nil {
		return nil, err
	}

	reqs, err := loadAPIRequests(filepath.Join(r.cfg.LogDir, apiRequestsFile))
	if err != nil {
		return nil, err
	}

	sum, err := r.build(ctx, src, nil, reqs, profileID)
	if err != nil {
		return nil, err
	}
	sum.Version = filepath.Base(dir)

	return sum, nil
}

func (r *Runner) build(ctx context.Context, src manifest.Sources, cards []pagescrape.OperatorCard, reqs []capture.APIRequest, profileID string) (*Summary, error) {
	m, assets, err := manifest.Assemble(manifest.Localize(src), r.log.With("manifest"))
	if err != nil {
		return nil, err
	}

	if n := manifest.MergeScraped(m, cards); n > 0 {
		r.log.Infof("Filled %d operator names from the page.", n)
	}

	if err := util.ResetDir(r.cfg.DistDir); err != nil {
		return nil, err
	}
	if err := manifest.Write(filepath.Join(r.cfg.DistDir, manifestFile), m); err != nil {
		return nil, err
	}

	dres, err := r.dl.DownloadAssets(ctx, assets, r.cfg.AssetBaseURL, filepath.Join(r.cfg.DistDir, "assets"), r.cfg.DownloadWorkers, r.bar("assets", "files"))
	if err != nil {
		return nil, err
	}
	r.Stats.TotalAssets.Add(int64(len(dres.Files)))
	r.Stats.FailedAssets.Add(int64(len(dres.Failed)))
	r.Stats.TotalBytes.Add(dres.Bytes)
	r.log.Infof("Downloaded %d items.", len(dres.Files))

	sum := &Summary{
		Operators: len(m.AllOperators),
		Seasons:   len(m.AllSeasons),
		Ranks:     len(m.AllRanks),
		Assets:    dres,
	}

	n, err := r.writeDocs(m, reqs, profileID)
	if err != nil {
		return nil, err
	}
	sum.Requests = n

	if sum.MissingAssets, err = r.publish(); err != nil {
		return nil, err
	}

	return sum, nil
}

// Docs re-renders the pages and the site from dist/manifest.json.
func (r *Runner) Docs(profileID string) (*Summary, error) {
	unlock, err := r.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	m, err := manifest.Read(filepath.Join(r.cfg.DistDir, manifestFile))
	if err != nil {
		return nil, err
	}

	reqs, err := loadAPIRequests(filepath.Join(r.cfg.LogDir, apiRequestsFile))
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Operators: len(m.AllOperators),
		Seasons:   len(m.AllSeasons),
		Ranks:     len(m.AllRanks),
	}

	if sum.Requests, err = r.writeDocs(m, reqs, profileID); err != nil {
		return nil, err
	}
	if sum.MissingAssets, err = r.publish(); err != nil {
		return nil, err
	}

	return sum, nil
}

func (r *Runner) writeDocs(m *manifest.Manifest, reqs []capture.APIRequest, profileID string) (int, error) {
	organized := apireport.Organize(reqs, profileID, r.cfg.SearchTerm)
	ascii, md := apireport.Render(organized)

	if _, err := docs.WriteAll(r.docsAutoDir(), m, md, ascii); err != nil {
		return 0, err
	}

	if err := util.WriteFile(filepath.Join(r.cfg.LogDir, requestsFile), []byte(apireport.URLList(organized))); err != nil {
		return 0, err
	}
	r.log.Infof("Recorded %d API requests.", len(organized))

	return len(organized), nil
}

// publish copies dist into the website, rewrites the sidebar and lists the
// page images that point at missing assets.
func (r *Runner) publish() ([]string, error) {
	if err := site.Publish(r.cfg.DistDir, r.cfg.WebsiteDir); err != nil {
		return nil, err
	}
	if err := site.WriteSidebars(r.cfg.DocsDir, r.cfg.WebsiteDir); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range docs.Order {
		b, err := os.ReadFile(filepath.Join(r.docsAutoDir(), id+".md"))
		if err != nil {
			return nil, err
		}
		missing = append(missing, docs.CheckAssets(b, filepath.Join(r.cfg.DistDir, "assets"))...)
	}

	if len(missing) > 0 {
		r.log.Infof("%d page images have no downloaded asset.", len(missing))
	}
	return missing, nil
}

func scrapedCards(pages []pagescrape.Page) []pagescrape.OperatorCard {
	var cards []pagescrape.OperatorCard
	for _, p := range pages {
		cards = append(cards, p.Operators...)
	}
	return cards
}

func saveAPIRequests(path string, reqs []capture.APIRequest) error {
	b, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode api requests: %w", err)
	}
	return util.WriteFile(path, b)
}

func loadAPIRequests(path string) ([]capture.APIRequest, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var reqs []capture.APIRequest
	if err := json.Unmarshal(b, &reqs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return reqs, nil
}
