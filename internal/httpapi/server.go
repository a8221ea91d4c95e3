package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"formd/internal/contact"
	"formd/internal/linebot"
	"formd/internal/site"
	"formd/pkg/types"
)

// ContactService accepts and lists contact form submissions.
type ContactService interface {
	Accept(ctx context.Context, sub types.Submission) (int64, error)
	Recent(ctx context.Context, limit int) ([]types.Submission, error)
}

// ReservationService drives the LINE conversation and lists reservations.
type ReservationService interface {
	HandleText(ctx context.Context, userID, text string) ([]linebot.Message, error)
	HandlePostback(ctx context.Context, userID, data string, params map[string]string) ([]linebot.Message, error)
	ConfirmedOn(ctx context.Context, day time.Time) ([]types.Reservation, error)
}

// Replier answers webhook events, normally a *linebot.Client.
type Replier interface {
	Reply(ctx context.Context, replyToken string, msgs []linebot.Message) error
}

// Config wires the mux dependencies. The LINE webhook is mounted only when
// both LineSecret and Replier are set; everything else is always served.
type Config struct {
	Contact     ContactService
	Reservation ReservationService
	Replier     Replier
	LineSecret  string
	Ready       func() bool // nil means always ready
}

func NewMux(cfg Config) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}
	r.Use(MetricsMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/contact", http.StatusFound)
	})

	r.Get("/contact", contactPageHandler())

	if staticFS, err := site.Static(); err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Post("/api/contact", contactIntakeHandler(cfg.Contact))
	r.Get("/api/submissions", submissionsHandler(cfg.Contact))
	r.Get("/api/reservations", reservationsHandler(cfg.Reservation))

	if cfg.LineSecret != "" && cfg.Replier != nil {
		r.Post("/line/webhook", webhookHandler(cfg))
	}

	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler(cfg.Ready))

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

func corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300,
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"Accept", "Content-Type"}
	}
	return opts
}

func contactPageHandler() http.HandlerFunc {
	page, pageErr := site.ContactPage()
	return func(w http.ResponseWriter, r *http.Request) {
		if pageErr != nil {
			writeJSONError(w, http.StatusInternalServerError, "contact page unavailable")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

// contactIntakeHandler accepts the multipart POST produced by the contact
// form. Responses are always JSON, matching the page's Accept header.
//
// @Summary      Accept a contact form submission
// @Description  Accepts the multipart payload produced by the contact page and stores it. Attachment bodies are discarded after their metadata is recorded.
// @Tags         contact
// @Accept       mpfd
// @Produce      json
// @Param        name        formData  string  true   "Sender name"
// @Param        email       formData  string  true   "Sender email address"
// @Param        phone       formData  string  false  "Phone number"
// @Param        subject     formData  string  false  "Subject line"
// @Param        message     formData  string  true   "Message body"
// @Param        attachment  formData  file    false  "Optional attachment"
// @Success      201  {object}  types.ContactResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      413  {object}  types.ErrorResponse
// @Failure      415  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/contact [post]
func contactIntakeHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ct := r.Header.Get("Content-Type")
		if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "multipart/form-data") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be multipart/form-data")
			return
		}
		// Limit body size (configurable, covers all parts)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				IncrementSubmission("too_large")
				writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			IncrementSubmission("invalid")
			writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}

		sub := types.Submission{
			Name:     r.PostFormValue("name"),
			Email:    r.PostFormValue("email"),
			Phone:    r.PostFormValue("phone"),
			Subject:  r.PostFormValue("subject"),
			Message:  r.PostFormValue("message"),
			ClientIP: clientIP(r),
		}
		for _, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				if fh.Filename == "" {
					// Browsers submit an empty part for an untouched file input.
					continue
				}
				sub.Attachments = append(sub.Attachments, types.Attachment{
					Filename:    fh.Filename,
					ContentType: fh.Header.Get("Content-Type"),
					SizeBytes:   fh.Size,
				})
			}
		}

		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()

		id, err := svc.Accept(ctx, sub)
		if err != nil {
			if contact.IsInvalidSubmission(err) {
				IncrementSubmission("invalid")
				writeJSONError(w, http.StatusBadRequest, err.Error())
				logEnd(r, "contact intake", http.StatusBadRequest, start, err)
				return
			}
			if he, ok := err.(HTTPError); ok {
				IncrementSubmission("error")
				writeJSONError(w, he.StatusCode(), he.Error())
				logEnd(r, "contact intake", he.StatusCode(), start, err)
				return
			}
			IncrementSubmission("error")
			writeJSONError(w, http.StatusInternalServerError, "failed to store submission")
			logEnd(r, "contact intake", http.StatusInternalServerError, start, err)
			return
		}

		IncrementSubmission("accepted")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(types.ContactResponse{ID: id, Status: "accepted"})
		logEnd(r, "contact intake", http.StatusCreated, start, nil)
	}
}

// @Summary      List recent submissions
// @Description  Lists stored contact submissions, newest first.
// @Tags         contact
// @Produce      json
// @Param        limit  query  int  false  "Maximum number of rows, 0 for the server default"
// @Success      200  {object}  types.SubmissionsResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/submissions [get]
func submissionsHandler(svc ContactService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				writeJSONError(w, http.StatusBadRequest, "invalid limit")
				return
			}
			limit = n
		}
		subs, err := svc.Recent(r.Context(), limit)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to list submissions")
			return
		}
		if subs == nil {
			subs = []types.Submission{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.SubmissionsResponse{Submissions: subs}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// @Summary      List reservations for a day
// @Description  Lists confirmed reservations for one day.
// @Tags         reservations
// @Produce      json
// @Param        date  query  string  false  "Day in YYYY-MM-DD form, defaults to today"
// @Success      200  {object}  types.ReservationsResponse
// @Failure      400  {object}  types.ErrorResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/reservations [get]
func reservationsHandler(svc ReservationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day := time.Now()
		if v := r.URL.Query().Get("date"); v != "" {
			d, err := time.ParseInLocation("2006-01-02", v, time.Local)
			if err != nil {
				writeJSONError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
				return
			}
			day = d
		}
		list, err := svc.ConfirmedOn(r.Context(), day)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to list reservations")
			return
		}
		if list == nil {
			list = []types.Reservation{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(types.ReservationsResponse{Reservations: list}); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	}
}

// @Summary  Liveness probe
// @Tags     ops
// @Produce  plain
// @Success  200  {string}  string  "OK"
// @Router   /healthz [get]
func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

// readyzHandler reports readiness. A nil ready func means always ready.
//
// @Summary  Readiness probe
// @Tags     ops
// @Produce  plain
// @Success  200  {string}  string  "OK"
// @Failure  503  {string}  string  "Service Unavailable"
// @Router   /readyz [get]
func readyzHandler(ready func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready == nil || ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
