package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mwiater/vqabench/internal/logging"
)

const (
	// DefaultRowsURL is the public rows endpoint of the datasets server.
	DefaultRowsURL = "https://datasets-server.huggingface.co/rows"
	// DefaultHubURL is the dataset API base used to list parquet exports.
	DefaultHubURL = "https://huggingface.co/api/datasets"

	rowsPageSize = 100
)

// Fetcher downloads dataset rows from the hub into local files.
type Fetcher struct {
	Token   string
	RowsURL string
	HubURL  string
	client  *http.Client
}

// NewFetcher returns a Fetcher using the public hub endpoints.
func NewFetcher(token string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		Token:   token,
		RowsURL: DefaultRowsURL,
		HubURL:  DefaultHubURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type rowsPage struct {
	Rows []struct {
		RowIdx int             `json:"row_idx"`
		Row    json.RawMessage `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

type parquetInfo struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Fetch pages the rows API and writes one JSON object per line to out.
// maxRows <= 0 fetches every row. out is only replaced once all pages arrived.
func (f *Fetcher) Fetch(ctx context.Context, hub HubSpec, maxRows int, out string) (int, error) {
	if strings.TrimSpace(hub.Dataset) == "" {
		return 0, fmt.Errorf("hub dataset id is empty")
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(out), ".fetch-*.jsonl")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	bw := bufio.NewWriter(tmp)
	written := 0
	for offset := 0; ; offset += rowsPageSize {
		length := rowsPageSize
		if maxRows > 0 && maxRows-written < length {
			length = maxRows - written
		}
		page, err := f.rowsPage(ctx, hub, offset, length)
		if err != nil {
			return written, err
		}
		for _, r := range page.Rows {
			if _, err := bw.Write(r.Row); err != nil {
				return written, err
			}
			if err := bw.WriteByte('\n'); err != nil {
				return written, err
			}
			written++
		}
		logging.LogEvent("fetch %s: %d/%d rows", hub.Dataset, written, page.NumRowsTotal)
		if len(page.Rows) == 0 || offset+len(page.Rows) >= page.NumRowsTotal {
			break
		}
		if maxRows > 0 && written >= maxRows {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return written, err
	}
	if err := tmp.Close(); err != nil {
		return written, err
	}
	if err := os.Rename(tmpPath, out); err != nil {
		return written, fmt.Errorf("rename fetched file: %w", err)
	}
	committed = true
	return written, nil
}

func (f *Fetcher) rowsPage(ctx context.Context, hub HubSpec, offset, length int) (rowsPage, error) {
	q := url.Values{}
	q.Set("dataset", hub.Dataset)
	q.Set("config", hub.Config)
	q.Set("split", hub.Split)
	q.Set("offset", strconv.Itoa(offset))
	q.Set("length", strconv.Itoa(length))

	var page rowsPage
	body, err := f.get(ctx, f.RowsURL+"?"+q.Encode())
	if err != nil {
		return page, err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(&page); err != nil {
		return page, fmt.Errorf("parse rows response: %w", err)
	}
	return page, nil
}

// FetchParquet downloads the parquet export of hub into outDir and returns
// the written file paths.
func (f *Fetcher) FetchParquet(ctx context.Context, hub HubSpec, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	listURL := fmt.Sprintf("%s/%s/parquet/%s/%s", strings.TrimRight(f.HubURL, "/"), hub.Dataset, hub.Config, hub.Split)
	body, err := f.get(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("list parquet files: %w", err)
	}
	raw, err := io.ReadAll(body)
	body.Close()
	if err != nil {
		return nil, err
	}

	urls, err := parseParquetListing(raw)
	if err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("no parquet files listed for %s", hub.Dataset)
	}

	var paths []string
	for i, u := range urls {
		name := fmt.Sprintf("%s-%s-%05d.parquet", hub.Config, hub.Split, i)
		outPath := filepath.Join(outDir, name)
		if err := f.download(ctx, u, outPath); err != nil {
			return paths, fmt.Errorf("download %s: %w", name, err)
		}
		logging.LogEvent("fetch %s: [%d/%d] %s", hub.Dataset, i+1, len(urls), name)
		paths = append(paths, outPath)
	}
	return paths, nil
}

// parseParquetListing accepts either a list of URLs or a list of file objects.
func parseParquetListing(raw []byte) ([]string, error) {
	var plain []string
	if err := json.Unmarshal(raw, &plain); err == nil {
		return plain, nil
	}
	var infos []parquetInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		return nil, fmt.Errorf("parse parquet listing: %w", err)
	}
	var urls []string
	for _, info := range infos {
		if strings.HasSuffix(info.Filename, ".parquet") || strings.HasSuffix(info.URL, ".parquet") {
			urls = append(urls, info.URL)
		}
	}
	return urls, nil
}

func (f *Fetcher) download(ctx context.Context, u, outPath string) error {
	body, err := f.get(ctx, u)
	if err != nil {
		return err
	}
	defer body.Close()

	tmpPath := outPath + ".tmp"
	out, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open tmp: %w", err)
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, outPath)
}

func (f *Fetcher) get(ctx context.Context, u string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}
	client := f.client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hub request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("hub: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}
