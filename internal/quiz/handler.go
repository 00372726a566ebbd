// backend/internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gunjand01/Quiz-App/internal/models"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	quiz, err := h.service.CreateQuiz(userID, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Quiz created successfully",
		"quizId":  quiz.ID,
		"quiz":    quiz,
	})
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.AddQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	ids, err := h.service.AddQuestions(userID, quizID, req.Questions)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":     "Questions added successfully",
		"questionIds": ids,
	})
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	quiz, questions, err := h.service.GetQuiz(quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	questions, err := h.service.GetQuestions(quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"questions": questions})
}

func (h *Handler) EditQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.EditQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.EditQuestions(userID, quizID, req.Questions); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz updated successfully"})
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.DeleteQuiz(userID, quizID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz deleted successfully"})
}

func (h *Handler) GetMyQuizzes(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(uint)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	quizzes, err := h.service.MyQuizzes(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req models.SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, badRequest(err))
		return
	}
	if err := models.Validate(req); err != nil {
		writeError(w, err)
		return
	}

	score, err := h.service.SubmitAnswers(quizID, req.UserAnswers)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"score":   score,
	})
}

func (h *Handler) RecordImpression(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	quiz, questions, err := h.service.RecordImpression(quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      quiz,
		"questions": questions,
	})
}

func (h *Handler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	quizID, err := quizIDFrom(r)
	if err != nil {
		writeError(w, err)
		return
	}

	analysis, err := h.service.Analysis(quizID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func quizIDFrom(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["quizId"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest(err)
	}
	return uint(id), nil
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", models.ErrValidation, err)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses. Internal errors
// keep a generic message with the cause in a details field.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrLimitExceeded):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	}

	body := map[string]interface{}{
		"status":  "error",
		"message": err.Error(),
	}
	if status == http.StatusInternalServerError {
		body["message"] = "Internal Server Error"
		body["details"] = err.Error()
	}
	writeJSON(w, status, body)
}
