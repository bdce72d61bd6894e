// Copyright (c) 2023 BVK Chaitanya

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"syscall"

	"github.com/bvk/tradedash/api"
)

// HandlerMap returns one http handler per daemon API operation, keyed by the
// url path. Every handler follows the same POST-JSON convention.
func (s *Server) HandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		api.OrderAddPath:        postJSONHandler(s.doOrderAdd),
		api.OrderCancelPath:     postJSONHandler(s.doOrderCancel),
		api.OrderGetPath:        postJSONHandler(s.doOrderGet),
		api.OrderListPath:       postJSONHandler(s.doOrderList),
		api.BotStartPath:        postJSONHandler(s.doBotStart),
		api.BotStopPath:         postJSONHandler(s.doBotStop),
		api.BotPausePath:        postJSONHandler(s.doBotPause),
		api.PairAddPath:         postJSONHandler(s.doPairAdd),
		api.PairRemovePath:      postJSONHandler(s.doPairRemove),
		api.SettingsGetPath:     postJSONHandler(s.doSettingsGet),
		api.SettingsUpdatePath:  postJSONHandler(s.doSettingsUpdate),
		api.TradePath:           postJSONHandler(s.doTrade),
		api.TransactionListPath: postJSONHandler(s.doTransactionList),
		api.StatusPath:          postJSONHandler(s.doStatus),
	}
}

func postJSONHandler[T1, T2 any](fn func(context.Context, *T1) (*T2, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "invalid http method", http.StatusMethodNotAllowed)
			return
		}
		req := new(T1)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := fn(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), errorStatusCode(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.ErrorContext(r.Context(), "could not encode api response (ignored)", "path", r.URL.Path, "err", err)
		}
	})
}

func errorStatusCode(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrExist):
		return http.StatusConflict
	case errors.Is(err, os.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, syscall.ENOTCONN):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
