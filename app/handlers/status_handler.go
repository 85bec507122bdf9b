package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/amirphl/card-transactions-generator/app/dto"
	businessflow "github.com/amirphl/card-transactions-generator/business_flow"
	"github.com/amirphl/card-transactions-generator/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const serviceName = "card-transactions-generator"

// StatusHandlerInterface defines the read-only endpoints of a running job
type StatusHandlerInterface interface {
	Health(c fiber.Ctx) error
	Status(c fiber.Ctx) error
	Partition(c fiber.Ctx) error
}

// StatusHandler serves job progress and partition counters
type StatusHandler struct {
	tracker    *businessflow.Tracker
	partitions businessflow.PartitionFlow
	validator  *validator.Validate
	logger     *log.Logger
}

func NewStatusHandler(tracker *businessflow.Tracker, partitions businessflow.PartitionFlow, logger *log.Logger) StatusHandlerInterface {
	return &StatusHandler{
		tracker:    tracker,
		partitions: partitions,
		validator:  validator.New(),
		logger:     logger,
	}
}

// Health reports that the process is alive
func (h *StatusHandler) Health(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: dto.HealthResponse{
			Status:    "ok",
			Service:   serviceName,
			Timestamp: utils.UnixNow(),
		},
	})
}

// Status returns the tracker snapshot of the running job
func (h *StatusHandler) Status(c fiber.Ctx) error {
	if h.tracker == nil {
		return ErrorResponse(c, fiber.StatusServiceUnavailable, "No job is running", "JOB_NOT_RUNNING", nil)
	}
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Job status retrieved successfully",
		Data:    h.tracker.Snapshot(),
	})
}

// Partition returns the counter record of the date in the path
func (h *StatusHandler) Partition(c fiber.Ctx) error {
	req := dto.PartitionRequest{Date: c.Params("date")}
	if err := h.validator.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ErrorResponse(c, fiber.StatusBadRequest, getValidationErrorMessage(verrs[0]), "VALIDATION_ERROR", nil)
		}
		return ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snap, err := h.partitions.Show(ctx, req.Date)
	if err != nil {
		if businessflow.IsPartitionNotFound(err) {
			return ErrorResponse(c, fiber.StatusNotFound, "Partition not found", businessflow.ErrorCode(err), nil)
		}
		h.logger.Printf("status: partition %s lookup failed: %v", req.Date, err)
		return ErrorResponse(c, fiber.StatusInternalServerError, "Failed to read partition", businessflow.ErrorCode(err), nil)
	}

	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Partition retrieved successfully",
		Data: dto.PartitionResponse{
			PartitionDate: snap.PartitionDate,
			JobCounter:    snap.JobCounter,
			ActiveJobs:    snap.ActiveJobs,
		},
	})
}
