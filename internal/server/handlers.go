package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/chromasim/internal/blob"
	"github.com/san-kum/chromasim/internal/experiment"
	"github.com/san-kum/chromasim/internal/render"
	"github.com/san-kum/chromasim/internal/tlc"
)

type submitResponse struct {
	Image  string `json:"image"`
	PlotID string `json:"plot_id"`
}

func plotKey(id string) string { return id + ".gif" }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// parseSamples reads compound{1..5}_description and compound{1..5}_rf.
// Every pair is required.
func parseSamples(r *http.Request) ([]experiment.Sample, error) {
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	samples := make([]experiment.Sample, 0, FormSlots)
	for i := 1; i <= FormSlots; i++ {
		nameField := fmt.Sprintf("compound%d_description", i)
		rfField := fmt.Sprintf("compound%d_rf", i)

		name := strings.TrimSpace(r.PostFormValue(nameField))
		if name == "" {
			return nil, fmt.Errorf("%s is required", nameField)
		}
		raw := strings.TrimSpace(r.PostFormValue(rfField))
		if raw == "" {
			return nil, fmt.Errorf("%s is required", rfField)
		}
		rf, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a number", rfField, raw)
		}
		samples = append(samples, experiment.Sample{Name: name, Rate: rf})
	}
	return samples, nil
}

// POST /submit
// Form: compound{1..5}_description, compound{1..5}_rf
// Responds {"image": <base64 gif>, "plot_id": <uuid>}
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	samples, err := parseSamples(r)
	if err != nil {
		s.metrics.rejected.Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	exp := experiment.New(experiment.Config{
		Samples:    samples,
		FrameCount: s.frameCount,
		Jitter:     s.jitter,
	})
	res, err := exp.Run(r.Context())
	if err != nil {
		s.fail(w, "simulate", err)
		return
	}
	img, err := exp.Render(r.Context(), render.New(s.renderOpts...), res)
	if err != nil {
		s.fail(w, "render", err)
		return
	}
	s.metrics.renderTime.Observe(time.Since(start).Seconds())
	s.metrics.gifBytes.Observe(float64(len(img)))

	id := uuid.NewString()
	_, err = s.store.Put(r.Context(), plotKey(id), bytes.NewReader(img), blob.PutOptions{
		ContentType: "image/gif",
		Metadata: map[string]string{
			"seed":   strconv.FormatInt(res.Seed, 10),
			"frames": strconv.Itoa(res.FrameCount),
		},
	})
	if err != nil {
		s.fail(w, "store", err)
		return
	}
	s.metrics.plots.Inc()
	s.logger.Infof("plot stored: plot_id=%s seed=%d bytes=%d", id, res.Seed, len(img))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(submitResponse{
		Image:  base64.StdEncoding.EncodeToString(img),
		PlotID: id,
	})
}

// GET /download/{plot_id}
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("plot_id")
	if _, err := uuid.Parse(id); err != nil {
		http.Error(w, "plot not found", http.StatusNotFound)
		return
	}

	info, body, err := s.store.Get(r.Context(), plotKey(id))
	if errors.Is(err, blob.ErrNotFound) {
		http.Error(w, "plot not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Errorf("download failed: plot_id=%s error=%v", id, err)
		http.Error(w, "cannot read plot", http.StatusInternalServerError)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plotKey(id)))
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if _, err := io.Copy(w, body); err != nil {
		s.logger.Errorf("download interrupted: plot_id=%s error=%v", id, err)
	}
}

// fail maps invalid input to 400 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, stage string, err error) {
	if errors.Is(err, tlc.ErrInvalidArgument) {
		s.metrics.rejected.Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Errorf("submit failed: stage=%s error=%v", stage, err)
	http.Error(w, stage+" failed", http.StatusInternalServerError)
}
