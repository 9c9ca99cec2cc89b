package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"voicedocs/internal/audio"
	"voicedocs/internal/config"
	"voicedocs/internal/jobs"
	"voicedocs/internal/service"
	"voicedocs/internal/utils"
	"voicedocs/internal/worker"
)

// Server wires the upload orchestrator into gin.
type Server struct {
	cfg       *config.Config
	processor *service.Processor
	jobs      jobs.Repository
	pool      *worker.Pool
	log       zerolog.Logger
}

func NewServer(cfg *config.Config, processor *service.Processor, repo jobs.Repository, pool *worker.Pool, log zerolog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		processor: processor,
		jobs:      repo,
		pool:      pool,
		log:       log.With().Str("component", "api").Logger(),
	}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.healthCheck)
	r.POST("/upload", s.uploadAudio)
	r.GET("/jobs/:id", s.getJob)
}

// healthCheck returns server health status
func (s *Server) healthCheck(c *gin.Context) {
	active, err := s.jobs.CountActive(c.Request.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("counting active jobs")
		active = -1
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"service":     "voicedocs",
		"active_jobs": active,
	})
}

// uploadAudio handles audio file upload, transcribes it and saves the
// formatted transcript into the document store. Validation order: file
// part, identifiers, filename, extension; the first failing check wins.
func (s *Server) uploadAudio(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "no file part in request")
		return
	}

	userID := c.PostForm("userId")
	fileName := c.PostForm("fileName")
	if userID == "" || fileName == "" {
		utils.Error(c, http.StatusBadRequest, "missing userId or fileName")
		return
	}

	if file.Filename == "" {
		utils.Error(c, http.StatusBadRequest, "no selected file")
		return
	}

	if !audio.AllowedFile(file.Filename, s.cfg.ExtendedFormats) {
		utils.Error(c, http.StatusBadRequest, "invalid file format")
		return
	}

	scratchPath, cleanup, err := audio.SaveScratch(file, s.cfg.UploadDir)
	if err != nil {
		s.log.Error().Err(err).Msg("saving scratch file")
		utils.Error(c, http.StatusInternalServerError, "failed to save uploaded file")
		return
	}

	hash, err := jobs.HashFile(scratchPath)
	if err != nil {
		s.log.Warn().Err(err).Msg("hashing uploaded audio")
	}

	job := &jobs.Job{
		ID:          uuid.New(),
		UserID:      userID,
		FileName:    fileName,
		AudioHash:   hash,
		ScratchPath: scratchPath,
	}
	if err := s.jobs.Create(c.Request.Context(), job); err != nil {
		s.log.Error().Err(err).Msg("creating job record")
		cleanup()
		utils.Error(c, http.StatusInternalServerError, "failed to create job record")
		return
	}

	mode := c.DefaultQuery("mode", s.cfg.UploadMode)
	switch mode {
	case "sync":
		s.processSync(c, job, cleanup)
	case "async":
		s.processAsync(c, job, cleanup)
	default:
		cleanup()
		utils.Error(c, http.StatusBadRequest, "mode must be \"sync\" or \"async\"")
	}
}

// processSync blocks the request for the whole transcribe round trip and
// returns the stored record payload.
func (s *Server) processSync(c *gin.Context, job *jobs.Job, cleanup func()) {
	rec, err := s.processor.Process(c.Request.Context(), job, cleanup)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "transcription failed: "+err.Error())
		return
	}
	utils.Message(c, "File uploaded and transcribed successfully", rec)
}

// processAsync hands the job to the worker pool and acknowledges at once.
// Background failures are logged and recorded on the job row only; clients
// observe completion through GET /jobs/:id or the document store.
func (s *Server) processAsync(c *gin.Context, job *jobs.Job, cleanup func()) {
	err := s.pool.Submit(func(ctx context.Context) {
		if _, err := s.processor.Process(ctx, job, cleanup); err != nil {
			s.log.Error().Err(err).Str("job_id", job.ID.String()).
				Msg("background processing failed")
		}
	})
	if err != nil {
		cleanup()
		if errors.Is(err, worker.ErrQueueFull) {
			utils.Error(c, http.StatusServiceUnavailable, "upload queue is full, retry later")
			return
		}
		utils.Error(c, http.StatusServiceUnavailable, "server is shutting down")
		return
	}

	utils.Message(c, "File accepted for transcription", gin.H{"job_id": job.ID.String()})
}

// getJob handles GET /jobs/:id
func (s *Server) getJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "invalid job id")
		return
	}

	job, err := s.jobs.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.Error(c, http.StatusNotFound, "job not found")
		return
	}

	utils.Message(c, "job status", job)
}
