package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/mpelletier/talentgraph/graph"
	"github.com/mpelletier/talentgraph/internal/dsu"
)

// SnapFiles names the three files of a SNAP musae dataset.
type SnapFiles struct {
	// Edges is a CSV with header id_1,id_2: one KNOWS edge per row.
	Edges string
	// Features is a JSON object mapping node id to a variable-length
	// numeric vector.
	Features string
	// Targets is a CSV carrying node ids and display names.
	Targets string
}

// SnapSummary reports what a load pass wrote. Components and
// LargestComponent describe the connectivity of the loaded graph: a graph
// that splinters into many components usually means a truncated edges file.
type SnapSummary struct {
	Users            int
	Edges            int
	Components       int
	LargestComponent int
}

// LoadSnap loads a SNAP dataset into the store. Feature vectors are
// right-padded with zeros to a common length so every user vector is
// comparable; users absent from the features file get an all-zero vector.
func LoadSnap(ctx context.Context, w graph.Writer, files SnapFiles, log zerolog.Logger) (SnapSummary, error) {
	features, maxLen, err := loadFeatures(files.Features)
	if err != nil {
		return SnapSummary{}, err
	}

	var summary SnapSummary
	components := dsu.New()

	err = forEachCSVRow(files.Targets, func(header map[string]int, row []string) error {
		id, err := strconv.ParseInt(cell(header, row, "id"), 10, 64)
		if err != nil {
			return fmt.Errorf("parse user id %q: %w", cell(header, row, "id"), err)
		}
		name := cell(header, row, "name")
		if name == "" {
			name = cell(header, row, "target")
		}
		if name == "" {
			name = strconv.FormatInt(id, 10)
		}

		feats := features[id]
		if feats == nil {
			feats = make([]float64, maxLen)
		}

		if err := w.PutUser(ctx, graph.User{ID: id, Name: name, Features: densify(feats, maxLen)}); err != nil {
			return fmt.Errorf("put user %d: %w", id, err)
		}
		summary.Users++
		components.Add(id)
		return nil
	})
	if err != nil {
		return SnapSummary{}, fmt.Errorf("load targets %s: %w", files.Targets, err)
	}

	err = forEachCSVRow(files.Edges, func(header map[string]int, row []string) error {
		src, err := strconv.ParseInt(cell(header, row, "id_1"), 10, 64)
		if err != nil {
			return fmt.Errorf("parse edge source %q: %w", cell(header, row, "id_1"), err)
		}
		dst, err := strconv.ParseInt(cell(header, row, "id_2"), 10, 64)
		if err != nil {
			return fmt.Errorf("parse edge target %q: %w", cell(header, row, "id_2"), err)
		}
		if err := w.PutEdge(ctx, src, dst); err != nil {
			return fmt.Errorf("put edge %d -> %d: %w", src, dst, err)
		}
		summary.Edges++
		components.Union(src, dst)
		return nil
	})
	if err != nil {
		return SnapSummary{}, fmt.Errorf("load edges %s: %w", files.Edges, err)
	}

	summary.Components, summary.LargestComponent = components.Components()

	log.Info().
		Int("users", summary.Users).
		Int("edges", summary.Edges).
		Int("feature_len", maxLen).
		Int("components", summary.Components).
		Int("largest_component", summary.LargestComponent).
		Msg("snap load complete")
	return summary, nil
}

// loadFeatures reads the id-to-vector map and returns the longest vector
// length, which becomes the common dense length.
func loadFeatures(path string) (map[int64][]float64, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read features %s: %w", path, err)
	}

	var raw map[string][]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parse features %s: %w", path, err)
	}

	features := make(map[int64][]float64, len(raw))
	maxLen := 0
	for key, vec := range raw {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, 0, fmt.Errorf("parse feature key %q: %w", key, err)
		}
		features[id] = vec
		if len(vec) > maxLen {
			maxLen = len(vec)
		}
	}
	return features, maxLen, nil
}

func densify(vec []float64, length int) []float64 {
	if len(vec) >= length {
		return vec
	}
	dense := make([]float64, length)
	copy(dense, vec)
	return dense
}

func forEachCSVRow(path string, fn func(header map[string]int, row []string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	headerRow, err := r.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[name] = i
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(header, row); err != nil {
			return err
		}
	}
}

func cell(header map[string]int, row []string, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
