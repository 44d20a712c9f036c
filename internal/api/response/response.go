// Package response concentra a escrita das respostas HTTP dos handlers e middlewares.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// Handle processa o resultado do serviço e envia a resposta padronizada ao cliente.
// Com err nil escreve data com successStatus; caso contrário traduz o AppError.
func Handle(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err != nil {
		Error(w, r, log, err)
		return
	}
	JSON(w, log, successStatus, data)
}

// JSON escreve data como JSON. Status 204 não leva corpo.
func JSON(w http.ResponseWriter, log logger.Logger, status int, data interface{}) {
	if status == http.StatusNoContent || data == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error traduz err para {erro, code, category}. Falhas 5xx são logadas com a causa completa;
// o cliente recebe apenas a mensagem genérica.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		log.Error(fmt.Sprintf("Erro de Servidor: %s %s %s", category, r.Method, r.URL.Path), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{
			"path":  r.URL.Path,
			"error": err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.ErrorResponse{
		Erro:     message,
		Code:     status,
		Category: category,
	})
}

// Decode lê o corpo JSON da requisição. Corpo malformado vira ValidationError.
func Decode(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// DecodeOptional é como Decode, mas aceita corpo vazio e deixa dst intacto.
func DecodeOptional(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
}
