package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/internal/dataset"
	"github.com/iwvelando/outlet-analytics/internal/report"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/output"
	"github.com/iwvelando/outlet-analytics/pkg/records"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	builder       *report.Builder
	maxUploadSize int64
	version       string
	defaults      []byte
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the report API. When
// cfg names a defaults file, it is read once here and applied beneath every
// request's own configuration.
func NewHandler(logger *zap.Logger, cfg *Config, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = &Config{uploadSizeBytes: constants.DefaultMaxUploadSizeBytes}
	}

	maxUploadSize := cfg.UploadSizeBytes()
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		builder:       report.NewBuilder(logger),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
	}

	if cfg.Defaults != "" {
		data, err := os.ReadFile(cfg.Defaults)
		if err != nil {
			return nil, fmt.Errorf("failed to read default analytics config: %w", err)
		}
		if _, err := config.LoadConfigurationFromReader(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("invalid default analytics config: %w", err)
		}
		h.defaults = data
	}

	mux := http.NewServeMux()

	// Report API endpoint (JSON body or dataset upload)
	mux.HandleFunc("/api/report", h.handleReport)

	// Config serialization endpoint for downloads
	mux.HandleFunc("/api/config/export", h.handleConfigExport)

	// Version endpoint
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux, nil
}

type reportResponse struct {
	Report     report.Report `json:"report"`
	CSV        string        `json:"csv"`
	Warnings   []string      `json:"warnings,omitempty"`
	Duration   string        `json:"duration"`
	ConfigYAML string        `json:"configYaml,omitempty"`
}

type reportRequest struct {
	Config  map[string]interface{} `json:"config"`
	Dataset *records.Collections   `json:"dataset"`
}

func (h *handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := h.now()
	const op = "server.handleReport"
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}

	var (
		collections records.Collections
		configBytes []byte
		status      int
		err         error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		collections, configBytes, status, err = h.readUpload(r)
	} else {
		collections, configBytes, status, err = h.readJSON(r)
	}
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.runReport(w, collections, configBytes, start, op)
}

// readUpload reads a multipart form with the dataset in "file" and an optional
// YAML analytics config in "config".
func (h *handler) readUpload(r *http.Request) (records.Collections, []byte, int, error) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		if isTooLarge(err) {
			return records.Collections{}, nil, http.StatusRequestEntityTooLarge,
				fmt.Errorf("upload exceeds limit of %d bytes", h.maxUploadSize)
		}
		return records.Collections{}, nil, http.StatusBadRequest, fmt.Errorf("failed to parse upload: %v", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return records.Collections{}, nil, http.StatusBadRequest, errors.New("missing dataset file")
	}
	defer h.closeFile(file)

	collections, err := dataset.Read(file, header.Filename)
	if err != nil {
		return records.Collections{}, nil, http.StatusBadRequest, err
	}

	var configBytes []byte
	if configFile, _, err := r.FormFile("config"); err == nil {
		defer h.closeFile(configFile)
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, configFile); err != nil {
			return records.Collections{}, nil, http.StatusInternalServerError, fmt.Errorf("failed to read configuration: %v", err)
		}
		configBytes = buf.Bytes()
	}

	return collections, configBytes, http.StatusOK, nil
}

// readJSON reads a {"config": {...}, "dataset": {...}} body.
func (h *handler) readJSON(r *http.Request) (records.Collections, []byte, int, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var payload reportRequest
	if err := dec.Decode(&payload); err != nil {
		if isTooLarge(err) {
			return records.Collections{}, nil, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request exceeds limit of %d bytes", h.maxUploadSize)
		}
		return records.Collections{}, nil, http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}
	if payload.Dataset == nil {
		return records.Collections{}, nil, http.StatusBadRequest, errors.New("missing dataset")
	}

	var configBytes []byte
	if payload.Config != nil {
		var err error
		configBytes, err = yaml.Marshal(plainNumbers(payload.Config))
		if err != nil {
			return records.Collections{}, nil, http.StatusBadRequest, fmt.Errorf("failed to encode configuration: %v", err)
		}
	}

	return *payload.Dataset, configBytes, http.StatusOK, nil
}

func (h *handler) runReport(w http.ResponseWriter, collections records.Collections, configBytes []byte, start time.Time, op string) {
	var layers []io.Reader
	if len(h.defaults) > 0 {
		layers = append(layers, bytes.NewReader(h.defaults))
	}
	if len(bytes.TrimSpace(configBytes)) > 0 {
		layers = append(layers, bytes.NewReader(configBytes))
	}
	if len(layers) == 0 {
		layers = append(layers, strings.NewReader("{}"))
	}

	cfg, err := config.LoadConfigurationLayers(layers...)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()
	if dataset.Count(collections) == 0 {
		warnings = append(warnings, dataset.ErrEmpty.Error())
	}

	result := h.builder.BuildWithFixedTime(collections, *cfg, cfg.ReferenceTime(h.now()))
	elapsed := h.now().Sub(start)

	response := reportResponse{
		Report:     result,
		CSV:        output.CsvString(result),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		ConfigYAML: string(configBytes),
	}

	h.logger.Info("report computed",
		zap.String("op", op),
		zap.Int("buckets", len(result.Monthly)),
		zap.Int("alerts", len(result.Alerts)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(plainNumbers(payload).(map[string]interface{}))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), "server.handleConfigExport")
		return
	}
	if _, err := config.LoadConfigurationFromReader(bytes.NewReader(yamlBytes)); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), "server.handleConfigExport")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// configKeyOrder is the section order of exported configuration files.
var configKeyOrder = []string{"logging", "output", "data", "asOf", "forecast", "schedule", "filter", "alerts"}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range configKeyOrder {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	ordered := orderedConfig{items: items}
	return yaml.Marshal(ordered)
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

// plainNumbers replaces the json.Number values of a decoded body with int64
// or float64 so they encode as YAML numbers rather than quoted strings.
func plainNumbers(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}:
		for key, item := range v {
			v[key] = plainNumbers(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = plainNumbers(item)
		}
		return v
	default:
		return value
	}
}

func isTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	return errors.As(err, &maxBytesErr)
}

func (h *handler) closeFile(file multipart.File) {
	if err := file.Close(); err != nil {
		h.logger.Warn("failed to close uploaded file",
			zap.String("op", "server.handleReport"),
			zap.Error(err),
		)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Warn("report request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
