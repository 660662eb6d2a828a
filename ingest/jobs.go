package ingest

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mpelletier/talentgraph/graph"
)

const (
	// DefaultJobBatchSize bounds how many texts go to the embedding
	// provider per request.
	DefaultJobBatchSize = 64

	// embedConcurrency caps in-flight embedding requests.
	embedConcurrency = 4
)

// JobUpserter mirrors job postings into an external vector index. Optional:
// a nil upserter skips the mirroring step.
type JobUpserter interface {
	UpsertJobs(ctx context.Context, jobs []graph.Job) error
}

// jobRecord tolerates the field-name variants found in job listing dumps.
type jobRecord struct {
	JobID            string   `json:"job_id"`
	ID               string   `json:"id"`
	JobTitle         string   `json:"job_title"`
	Title            string   `json:"title"`
	CompanyName      string   `json:"company_name"`
	Company          string   `json:"company"`
	JobLocation      string   `json:"job_location"`
	Location         string   `json:"location"`
	JobPostingURL    string   `json:"job_posting_url"`
	JobURL           string   `json:"job_url"`
	URL              string   `json:"url"`
	NormalizedSalary *float64 `json:"normalized_salary"`
}

func (r jobRecord) toJob() graph.Job {
	job := graph.Job{
		ID:         firstNonEmpty(r.JobID, r.ID, r.JobPostingURL, r.URL),
		Title:      firstNonEmpty(r.JobTitle, r.Title, "Unknown title"),
		Company:    firstNonEmpty(r.CompanyName, r.Company),
		Location:   firstNonEmpty(r.JobLocation, r.Location),
		PostingURL: firstNonEmpty(r.JobPostingURL, r.URL, r.JobURL),
		Salary:     r.NormalizedSalary,
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	return job
}

// jobText builds the string that gets embedded for a posting.
func jobText(j graph.Job) string {
	parts := []string{j.Title}
	if j.Company != "" {
		parts = append(parts, j.Company)
	}
	if j.Location != "" {
		parts = append(parts, j.Location)
	}
	return strings.Join(parts, " - ")
}

// JobsSummary reports what a job load pass wrote.
type JobsSummary struct {
	Jobs     int
	Embedded int
}

// LoadJobs reads a JSONL dump of job postings, embeds each posting's text in
// concurrent batches, and writes the jobs to the store. When upserter is
// non-nil the embedded jobs are also mirrored to the external index. A
// non-positive limit loads the whole file.
func LoadJobs(ctx context.Context, w graph.Writer, client EmbeddingClient, upserter JobUpserter, path string, limit int, log zerolog.Logger) (JobsSummary, error) {
	jobs, err := readJobRecords(path, limit)
	if err != nil {
		return JobsSummary{}, err
	}
	if len(jobs) == 0 {
		return JobsSummary{}, nil
	}

	if err := embedJobs(ctx, client, jobs); err != nil {
		return JobsSummary{}, err
	}

	summary := JobsSummary{Jobs: len(jobs)}
	for _, j := range jobs {
		if err := w.PutJob(ctx, *j); err != nil {
			return JobsSummary{}, fmt.Errorf("put job %s: %w", j.ID, err)
		}
		if len(j.Embedding) > 0 {
			summary.Embedded++
		}
	}

	if upserter != nil {
		batch := make([]graph.Job, len(jobs))
		for i, j := range jobs {
			batch[i] = *j
		}
		if err := upserter.UpsertJobs(ctx, batch); err != nil {
			return JobsSummary{}, fmt.Errorf("mirror jobs to index: %w", err)
		}
	}

	log.Info().
		Int("jobs", summary.Jobs).
		Int("embedded", summary.Embedded).
		Msg("job load complete")
	return summary, nil
}

func readJobRecords(path string, limit int) ([]*graph.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open jobs file %s: %w", path, err)
	}
	defer f.Close()

	var jobs []*graph.Job
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec jobRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("parse jobs file %s line %d: %w", path, line, err)
		}
		job := rec.toJob()
		jobs = append(jobs, &job)
		if limit > 0 && len(jobs) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read jobs file %s: %w", path, err)
	}
	return jobs, nil
}

// embedJobs fills in the Embedding field of every job, batching requests and
// running up to embedConcurrency batches in flight.
func embedJobs(ctx context.Context, client EmbeddingClient, jobs []*graph.Job) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	var mu sync.Mutex
	for start := 0; start < len(jobs); start += DefaultJobBatchSize {
		end := start + DefaultJobBatchSize
		if end > len(jobs) {
			end = len(jobs)
		}
		batch := jobs[start:end]

		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, j := range batch {
				texts[i] = jobText(*j)
			}
			vecs, err := client.Embed(ctx, texts)
			if err != nil {
				return fmt.Errorf("embed job batch: %w", err)
			}
			if len(vecs) != len(batch) {
				return fmt.Errorf("embed job batch: got %d vectors for %d texts", len(vecs), len(batch))
			}
			mu.Lock()
			for i := range batch {
				batch[i].Embedding = vecs[i]
			}
			mu.Unlock()
			return nil
		})
	}

	return g.Wait()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
