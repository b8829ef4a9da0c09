package http

import (
	"fmt"
	"net/http"

	"github.com/DRSN-tech/marketplace-backend/internal/usecase"
	"github.com/DRSN-tech/marketplace-backend/pkg/e"
	"github.com/DRSN-tech/marketplace-backend/pkg/logger"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewUC usecase.ReviewUC
	validate *validator.Validate
	logger   logger.Logger
}

func NewReviewHandler(reviewUC usecase.ReviewUC, validate *validator.Validate, logger logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviewUC: reviewUC, validate: validate, logger: logger}
}

// listReviews
//
//	@Summary		Все активные отзывы
//	@Tags			reviews
//	@Produce		json
//	@Success		200	{array}	ReviewResponse
//	@Router			/reviews [get]
func (h *ReviewHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewUC.ListReviews(r.Context())
	if err != nil {
		h.logger.Warnf("listReviews: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponses(reviews))
}

// listProductReviews
//
//	@Summary		Отзывы товара
//	@Description	Возвращает активные отзывы товара; сам товар может быть деактивирован
//	@Tags			reviews
//	@Produce		json
//	@Param			product_id	path		int	true	"ID товара"
//	@Success		200			{array}		ReviewResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/reviews/{product_id} [get]
func (h *ReviewHandler) listProductReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "product_id")
	if err != nil {
		WriteError(w, err)
		return
	}

	reviews, err := h.reviewUC.ListProductReviews(r.Context(), productID)
	if err != nil {
		h.logger.Warnf("listProductReviews: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponses(reviews))
}

// createReview
//
//	@Summary		Создание отзыва
//	@Description	Создает отзыв покупателя; у пользователя может быть не больше одного активного отзыва
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateReviewRequest	true	"Отзыв"
//	@Success		200		{object}	ReviewResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reviews [post]
func (h *ReviewHandler) createReview(w http.ResponseWriter, r *http.Request) {
	caller, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	var dto CreateReviewRequest
	if err := decodeJSON(r, &dto); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.validate.Struct(&dto); err != nil {
		h.logger.Warnf("createReview: %v", err)
		WriteError(w, e.Wrap(err.Error(), e.ErrValidation))
		return
	}

	review, err := h.reviewUC.CreateReview(r.Context(), caller, usecase.NewCreateReviewReq(dto.ProductID, dto.Comment, dto.Grade))
	if err != nil {
		h.logger.Warnf("createReview: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toReviewResponse(review))
}

// deleteReview
//
//	@Summary		Удаление отзыва
//	@Description	Физически удаляет активный отзыв; доступно только его автору
//	@Tags			reviews
//	@Produce		json
//	@Param			id	path		int	true	"ID отзыва"
//	@Success		200	{object}	StatusResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		403	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/reviews/{id} [delete]
func (h *ReviewHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	caller, err := userFromCtx(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		WriteError(w, err)
		return
	}

	if err := h.reviewUC.DeleteReview(r.Context(), caller, id); err != nil {
		h.logger.Warnf("deleteReview: %v", err)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, StatusResponse{
		Message: fmt.Sprintf("review %d deleted", id),
	})
}
