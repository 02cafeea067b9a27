package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/huynhanx03/go-orderedindex/pkg/common/apperr"
	"github.com/huynhanx03/go-orderedindex/pkg/common/http/response"
	"github.com/huynhanx03/go-orderedindex/pkg/index"
)

const maxScanLimit = 10_000

// Key is bound from a catch-all segment, so it keeps its leading slash and
// may contain more.
type keyRequest struct {
	Key string `uri:"key" validate:"required"`
}

// Value is a pointer so that an empty value is accepted and a missing one
// is not.
type putRequest struct {
	Key   string  `uri:"key" json:"-" validate:"required"`
	Value *string `json:"value" validate:"required"`
}

type scanRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Limit int    `form:"limit" validate:"gte=0,lte=10000"`
}

type emptyRequest struct{}

type entry = index.Entry[string, string]

type deleteResponse struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
}

type scanResponse struct {
	Entries []entry `json:"entries"`
	Count   int     `json:"count"`
}

type compactResponse struct {
	Reclaimed int `json:"reclaimed"`
}

type verifyResponse struct {
	OK bool `json:"ok"`
}

type handlers struct {
	idx *index.Index[string, string]
}

func notFound(key string) error {
	return apperr.NewError("key "+key, response.CodeNotFound, apperr.MsgNotFound, http.StatusNotFound, nil)
}

func pathKey(raw string) (string, error) {
	key := strings.TrimPrefix(raw, "/")
	if key == "" {
		return "", apperr.NewError("key", response.CodeValidationFailed, "must not be empty", http.StatusUnprocessableEntity, nil)
	}
	return key, nil
}

func (h *handlers) get(_ context.Context, req *keyRequest) (entry, error) {
	key, err := pathKey(req.Key)
	if err != nil {
		return entry{}, err
	}
	val, ok := h.idx.Get(key)
	if !ok {
		return entry{}, notFound(key)
	}
	return entry{Key: key, Value: val}, nil
}

func (h *handlers) put(_ context.Context, req *putRequest) (entry, error) {
	key, err := pathKey(req.Key)
	if err != nil {
		return entry{}, err
	}
	h.idx.Put(key, *req.Value)
	return entry{Key: key, Value: *req.Value}, nil
}

func (h *handlers) delete(_ context.Context, req *keyRequest) (deleteResponse, error) {
	key, err := pathKey(req.Key)
	if err != nil {
		return deleteResponse{}, err
	}
	if !h.idx.Delete(key) {
		return deleteResponse{}, notFound(key)
	}
	return deleteResponse{Key: key, Deleted: true}, nil
}

func (h *handlers) scan(_ context.Context, req *scanRequest) (scanResponse, error) {
	r := index.Range[string]{Limit: req.Limit}
	if r.Limit == 0 {
		r.Limit = maxScanLimit
	}
	if req.From != "" {
		r.From = &req.From
	}
	if req.To != "" {
		r.To = &req.To
	}
	if r.From != nil && r.To != nil && *r.To < *r.From {
		return scanResponse{}, apperr.NewError("scan", response.CodeBadRequest, apperr.MsgInvalidRange, http.StatusBadRequest, nil)
	}

	entries := h.idx.Scan(r)
	if entries == nil {
		entries = []entry{}
	}
	return scanResponse{Entries: entries, Count: len(entries)}, nil
}

func (h *handlers) stats(_ context.Context, _ *emptyRequest) (index.Stats, error) {
	return h.idx.Stats(), nil
}

func (h *handlers) compact(_ context.Context, _ *emptyRequest) (compactResponse, error) {
	return compactResponse{Reclaimed: h.idx.Compact()}, nil
}

func (h *handlers) verify(_ context.Context, _ *emptyRequest) (verifyResponse, error) {
	if err := h.idx.Verify(); err != nil {
		return verifyResponse{}, apperr.MapError("index", err, response.CodeIndexCorrupt, apperr.MsgVerifyFailed, http.StatusInternalServerError)
	}
	return verifyResponse{OK: true}, nil
}
