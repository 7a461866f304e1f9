package predictions

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JaimeStill/floraguard/internal/alerts"
	"github.com/JaimeStill/floraguard/internal/languages"
	"github.com/JaimeStill/floraguard/internal/toxicity"
	"github.com/JaimeStill/floraguard/pkg/formatting"
	"github.com/JaimeStill/floraguard/pkg/handlers"
	"github.com/JaimeStill/floraguard/pkg/routes"
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Classifier runs the local model on an uploaded image.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (toxicity.Classification, error)
	Ready() bool
}

// Decider produces the verdict for a classification.
type Decider interface {
	Decide(ctx context.Context, c toxicity.Classification, image []byte, locale string) toxicity.Verdict
}

// Alerter fires the verdict side effect without blocking.
type Alerter interface {
	Dispatch(ctx context.Context, e alerts.Event)
}

// Handler provides the prediction endpoint.
type Handler struct {
	classifier    Classifier
	decider       Decider
	alerter       Alerter
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler limiting uploads to maxUploadSize bytes.
func NewHandler(
	classifier Classifier,
	decider Decider,
	alerter Alerter,
	logger *slog.Logger,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		classifier:    classifier,
		decider:       decider,
		alerter:       alerter,
		logger:        logger.With("handler", "predictions"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for prediction endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/predict",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Predict},
		},
	}
}

// Predict classifies a multipart "file" upload and returns its verdict.
// The locale comes from the "lang" query or form value.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if !h.classifier.Ready() {
		handlers.RespondSafeError(w, h.logger, http.StatusInternalServerError, errModelFailed)
		return
	}

	data, filename, err := h.readUpload(w, r)
	if err != nil {
		handlers.RespondSafeError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	locale := languages.NormalizeLocale(requestLang(r))

	if !allowedFile(filename) {
		handlers.RespondSafeError(w, h.logger, http.StatusBadRequest, ErrInvalidType)
		return
	}

	classification, err := h.classifier.Classify(r.Context(), data)
	if err != nil {
		handlers.RespondSafeError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	verdict := h.decider.Decide(r.Context(), classification, data, locale)

	h.alerter.Dispatch(r.Context(), alerts.Event{
		Signal:         alerts.SignalFor(verdict.IsToxic),
		ScientificName: verdict.ScientificName,
		CommonName:     verdict.CommonName,
		Confidence:     verdict.Confidence,
		Source:         verdict.Source,
	})

	h.logger.InfoContext(
		r.Context(), "prediction complete",
		"locale", locale,
		"state", verdict.State,
		"is_toxic", verdict.IsToxic,
		"source", verdict.Source,
	)

	handlers.RespondJSON(w, http.StatusOK, Assemble(verdict))
}

func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if h.maxUploadSize > 0 {
		if r.ContentLength > h.maxUploadSize {
			return nil, "", h.tooLarge()
		}
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", h.tooLarge()
		}
		return nil, "", ErrNoFile
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", ErrNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", ErrNoFile
	}

	return data, header.Filename, nil
}

func (h *Handler) tooLarge() error {
	return fmt.Errorf("%w (limit %s)", ErrFileTooLarge, formatting.FormatBytes(h.maxUploadSize, 0))
}

func requestLang(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return r.FormValue("lang")
}

func allowedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}
