package handler

import (
	"errors"
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chemtrack/chemical-tracker/internal/api/metrics"
	"github.com/chemtrack/chemical-tracker/internal/core/domain"
	"github.com/chemtrack/chemical-tracker/internal/core/ports"
)

// BatchHandler exposes the four operation panels over HTTP.
type BatchHandler struct {
	service ports.BatchService
}

func NewBatchHandler(service ports.BatchService) *BatchHandler {
	return &BatchHandler{service: service}
}

// Create handles POST /v1/batches.
//
// @Summary      Create a batch
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBatchRequest  true  "Batch details"
// @Success      202   {object}  dispatchResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/batches [post]
func (h *BatchHandler) Create(c echo.Context) error {
	var req createBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.DispatchesTotal.WithLabelValues("create", "rejected").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	result, err := h.service.Create(c.Request().Context(), ports.CreateBatchInput{
		ChemicalName: req.ChemicalName,
		LocationName: req.LocationName,
	})
	observeDispatch("create", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dispatchResponse{Message: "batch created successfully", TxHash: result.TxHash})
}

// Transfer handles POST /v1/batches/:id/transfer.
//
// @Summary      Transfer a batch to a new owner and location
// @Tags         batches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Batch ID (decimal uint256)"
// @Param        body  body      transferBatchRequest  true  "Transfer details"
// @Success      202   {object}  dispatchResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/batches/{id}/transfer [post]
func (h *BatchHandler) Transfer(c echo.Context) error {
	id, err := parseBatchID(c.Param("id"))
	if err != nil {
		return err
	}

	var req transferBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.DispatchesTotal.WithLabelValues("transfer", "rejected").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	start := time.Now()
	result, err := h.service.Transfer(c.Request().Context(), ports.TransferBatchInput{
		ID:          id,
		NewOwner:    req.NewOwner,
		NewLocation: req.NewLocation,
	})
	observeDispatch("transfer", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dispatchResponse{Message: "batch transferred successfully", TxHash: result.TxHash})
}

// Complete handles POST /v1/batches/:id/complete.
//
// @Summary      Mark a batch completed
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Batch ID (decimal uint256)"
// @Success      202  {object}  dispatchResponse
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/batches/{id}/complete [post]
func (h *BatchHandler) Complete(c echo.Context) error {
	id, err := parseBatchID(c.Param("id"))
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := h.service.Complete(c.Request().Context(), id)
	observeDispatch("complete", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, dispatchResponse{Message: "batch completed successfully", TxHash: result.TxHash})
}

// Get handles GET /v1/batches/:id.
//
// @Summary      Fetch a batch record
// @Tags         batches
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Batch ID (decimal uint256)"
// @Success      200  {object}  batchResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      502  {object}  errorResponse
// @Router       /v1/batches/{id} [get]
func (h *BatchHandler) Get(c echo.Context) error {
	id, err := parseBatchID(c.Param("id"))
	if err != nil {
		return err
	}

	start := time.Now()
	batch, err := h.service.Get(c.Request().Context(), id)
	observeDispatch("fetch", start, err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, batchResponse{
		ID:           batch.ID.String(),
		ChemicalName: batch.ChemicalName,
		Location:     batch.Location,
		Owner:        batch.Owner,
		Completed:    batch.Completed,
	})
}

// parseBatchID parses the decimal uint256 path parameter.
func parseBatchID(raw string) (*big.Int, error) {
	id, ok := new(big.Int).SetString(raw, 10)
	if !ok || id.Sign() < 0 {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid batch id")
	}
	return id, nil
}

// observeDispatch records outcome and duration for one operation.
// "rejected" means the call never left the process; "failed" means the
// remote boundary rejected it.
func observeDispatch(operation string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRemoteCallFailed):
		outcome = "failed"
	default:
		outcome = "rejected"
	}
	metrics.DispatchesTotal.WithLabelValues(operation, outcome).Inc()
	metrics.DispatchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
