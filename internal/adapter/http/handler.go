package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"resume-renderer/internal/adapter/repository"
	"resume-renderer/internal/animation"
	"resume-renderer/internal/compose"
	"resume-renderer/internal/domain"
	"resume-renderer/internal/inspect"
	"resume-renderer/internal/labels"
	"resume-renderer/internal/model"
	"resume-renderer/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type JobStore interface {
	Save(ctx context.Context, j *domain.RenderJob) error
	Get(ctx context.Context, id uuid.UUID) (*domain.RenderJob, error)
}

type Enqueuer interface {
	Enqueue(job *domain.RenderJob) error
}

type Handler struct {
	processor *usecase.Processor
	queue     Enqueuer
	repo      JobStore
	animator  *animation.Animator
	backend   compose.Backend
	log       zerolog.Logger
}

// NewHandler falls back to an in-memory job store when r is nil.
func NewHandler(p *usecase.Processor, q Enqueuer, r JobStore, a *animation.Animator, backend compose.Backend, log zerolog.Logger) *Handler {
	if r == nil {
		r = repository.NewMemoryRepo()
	}
	return &Handler{processor: p, queue: q, repo: r, animator: a, backend: backend, log: log}
}

// Register mounts every route on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/healthz", h.Health)
	r.Post("/resumes/render", h.RenderResume)
	r.Post("/jobs/start", h.StartJob)
	r.Get("/jobs/:id", h.GetJob)
	r.Get("/labels", h.ListLanguages)
	r.Get("/labels/:lang", h.GetLabels)
	r.Post("/documents/inspect", h.InspectDocument)
	r.Post("/documents/preview", h.PreviewDocument)
	r.Get("/scores/stream", h.StreamScores)
}

type renderReq struct {
	Resume   json.RawMessage `json:"resume"`
	Labels   *labels.Labels  `json:"labels,omitempty"`
	Language string          `json:"language,omitempty"`
	Backend  string          `json:"backend,omitempty"`
}

type renderInput struct {
	doc     model.ResumeDocument
	labels  labels.Labels
	backend compose.Backend
}

func (h *Handler) parseRender(c *fiber.Ctx) (renderInput, error) {
	var req renderReq
	if err := c.BodyParser(&req); err != nil {
		return renderInput{}, errors.New("invalid payload")
	}
	if len(req.Resume) == 0 {
		return renderInput{}, errors.New("resume is required")
	}
	doc, err := model.Decode(req.Resume)
	if err != nil {
		return renderInput{}, err
	}

	backend := h.backend
	if req.Backend != "" {
		if backend, err = compose.ParseBackend(req.Backend); err != nil {
			return renderInput{}, err
		}
	}

	l := labels.For(req.Language)
	if req.Labels != nil {
		l = req.Labels.Merge(l)
	}
	return renderInput{doc: doc, labels: l, backend: backend}, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "retry": false})
}

// RenderResume renders synchronously and answers with the document.
func (h *Handler) RenderResume(c *fiber.Ctx) error {
	in, err := h.parseRender(c)
	if err != nil {
		return badRequest(c, err)
	}

	job, res, err := h.processor.Render(c.UserContext(), in.doc, in.labels, in.backend)
	if err != nil {
		return h.renderError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(res.FileName))
	c.Set("X-Job-Id", job.ID.String())
	c.Set("X-Page-Count", strconv.Itoa(res.Pages))
	if res.Location != "" {
		c.Set(fiber.HeaderLocation, res.Location)
	}
	return c.Send(res.PDF)
}

// contentDisposition carries name as RFC 5987 UTF-8 plus an ASCII fallback
// for clients that ignore filename*.
func contentDisposition(name string) string {
	fallback := []rune(name)
	for i, r := range fallback {
		if r > unicode.MaxASCII || r < 0x20 || r == '"' || r == '\\' {
			fallback[i] = '_'
		}
	}

	var enc strings.Builder
	for _, b := range []byte(name) {
		if isAttrChar(b) {
			enc.WriteByte(b)
		} else {
			fmt.Fprintf(&enc, "%%%02X", b)
		}
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, string(fallback), enc.String())
}

func isAttrChar(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", b) >= 0
}

// renderError maps render failures to a status and a user-facing message.
// Internal causes are logged, not returned.
func (h *Handler) renderError(c *fiber.Ctx, err error) error {
	status, msg, retry := fiber.StatusInternalServerError, "failed to render resume", true
	switch {
	case errors.Is(err, model.ErrInvalidDocument), errors.Is(err, usecase.ErrUnknownBackend):
		status, msg, retry = fiber.StatusBadRequest, err.Error(), false
	case errors.Is(err, usecase.ErrRenderInProgress):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, compose.ErrRenderTargetMissing):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, compose.ErrCaptureFailed):
		status = fiber.StatusBadGateway
	}
	if status >= fiber.StatusInternalServerError {
		h.log.Error().Err(err).Int("status", status).Msg("render request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": msg, "retry": retry})
}

// StartJob accepts a render and processes it in the background.
func (h *Handler) StartJob(c *fiber.Ctx) error {
	in, err := h.parseRender(c)
	if err != nil {
		return badRequest(c, err)
	}
	job := domain.NewRenderJob(in.doc, in.labels, string(in.backend))

	// persist initial job (best-effort)
	if err := h.repo.Save(c.UserContext(), job); err != nil {
		h.log.Warn().Err(err).Str("job_id", job.ID.String()).Msg("failed to save job")
	}

	id, status := job.ID.String(), job.Status
	if err := h.queue.Enqueue(job); err != nil {
		job.Status = domain.StatusFailed
		job.Error = err.Error()
		_ = h.repo.Save(c.UserContext(), job)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error(), "retry": true})
	}
	// the queue owns job from here on
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"jobId": id, "status": status})
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, errors.New("invalid job id"))
	}
	job, err := h.repo.Get(c.UserContext(), id)
	if errors.Is(err, repository.ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found", "retry": false})
	}
	if err != nil {
		h.log.Error().Err(err).Str("job_id", id.String()).Msg("load job")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load job", "retry": true})
	}
	if !job.Finished() {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.JSON(job)
}

func (h *Handler) ListLanguages(c *fiber.Ctx) error {
	langs := labels.Builtin().Languages()
	sort.Strings(langs)
	return c.JSON(fiber.Map{"languages": langs, "default": labels.DefaultLanguage})
}

func (h *Handler) GetLabels(c *fiber.Ctx) error {
	return c.JSON(labels.For(c.Params("lang")))
}

// InspectDocument reports page count and text of a PDF sent as the body.
func (h *Handler) InspectDocument(c *fiber.Ctx) error {
	rep, err := inspect.Inspect(c.Body())
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(rep)
}

// PreviewDocument answers with a JPEG of one page (?page=N, zero based).
func (h *Handler) PreviewDocument(c *fiber.Ctx) error {
	img, err := inspect.Preview(c.Body(), c.QueryInt("page", 0))
	if err != nil {
		return badRequest(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/jpeg")
	return c.Send(img)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	g := h.processor.Gate()
	body := fiber.Map{"status": "ok", "render": g.State().String()}
	if err := g.Err(); err != nil {
		body["lastError"] = err.Error()
	}
	return c.JSON(body)
}

type scoreEvent struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// StreamScores animates each query parameter (name=target) from 0 to its
// target and sends one server-sent event per frame. The animation stops when
// the client goes away.
func (h *Handler) StreamScores(c *fiber.Ctx) error {
	targets := map[string]int{}
	for name, raw := range c.Queries() {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, fmt.Errorf("score %q is not a number", name))
		}
		targets[name] = animation.Clamp(v)
	}
	if len(targets) == 0 {
		return badRequest(c, errors.New("no scores given"))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		player := animation.NewPlayer(h.animator)
		defer player.Stop()

		var mu sync.Mutex
		send := func(event string, payload interface{}) {
			mu.Lock()
			defer mu.Unlock()
			if ctx.Err() != nil {
				return
			}
			data, _ := json.Marshal(payload)
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
			if err := w.Flush(); err != nil {
				cancel()
			}
		}

		err := <-player.Play(ctx, targets, func(name string, v int) {
			send("score", scoreEvent{Name: name, Value: v})
		})
		if err != nil {
			h.log.Debug().Err(err).Msg("score stream closed by client")
			return
		}
		send("done", targets)
	})
	return nil
}
