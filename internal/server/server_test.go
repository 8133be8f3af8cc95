package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/materialqc/specsheet/internal/spec"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakePipeline struct {
	items    []spec.Item
	markdown string
	err      error
}

func (f *fakePipeline) Process(_ context.Context, _ string, _ []byte, _ []spec.Item) ([]spec.Item, error) {
	return f.items, f.err
}

func (f *fakePipeline) ConvertMarkdown(_ context.Context, _ string, _ []byte) (string, error) {
	return f.markdown, f.err
}

func multipartBody(t *testing.T, fileName string, pdf []byte, dataList string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(pdf)
		require.NoError(t, err)
	}
	if dataList != "" {
		require.NoError(t, mw.WriteField("dataList", dataList))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

const validDataList = `[{"项目代码":"P001","检验项目":"厚度","类型":"定量","上限":"","下限":"","单位":"mm"}]`

func TestExtractFieldsSuccess(t *testing.T) {
	pipe := &fakePipeline{items: []spec.Item{
		{ProjectCode: "P001", Name: "厚度", Type: spec.TypeQuantitative, Upper: "0.5", Lower: "0", Unit: "mm"},
	}}
	srv := httptest.NewServer(NewServer(testLogger(), pipe).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), validDataList)
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got struct {
		Success  bool        `json:"success"`
		DataList []spec.Item `json:"dataList"`
		Msg      string      `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Success)
	assert.Equal(t, "处理成功", got.Msg)
	require.Len(t, got.DataList, 1)
	assert.Equal(t, "0.5", got.DataList[0].Upper)
	assert.Equal(t, "P001", got.DataList[0].ProjectCode)
}

func TestExtractFieldsMissingFile(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "", nil, validDataList)
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "未提供PDF文件", got["error"])
}

func TestExtractFieldsMissingDataList(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), "")
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "未提供规格表数据(JSON格式)", got["error"])
}

func TestExtractFieldsInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), "{not json")
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExtractFieldsMissingRequiredKeys(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), `[{"检验项目":"厚度"}]`)
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got["error"], "entry 1")
}

func TestExtractFieldsPipelineError(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{err: errors.New("gateway unavailable")}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), validDataList)
	resp, err := http.Post(srv.URL+"/api/file/extract-fields", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var got struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Msg     string `json:"msg"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.False(t, got.Success)
	assert.Equal(t, "处理失败", got.Msg)
	assert.Contains(t, got.Error, "gateway unavailable")
}

func TestExtractMarkdown(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{markdown: "# 规格\n厚度 ≤0.5mm"}).Handler())
	defer srv.Close()

	body, ctype := multipartBody(t, "sheet.pdf", []byte("%PDF"), "")
	resp, err := http.Post(srv.URL+"/api/file/extract-markdown", ctype, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "# 规格\n厚度 ≤0.5mm", string(raw))
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "healthy", got["status"])
}

func TestMetricsExposed(t *testing.T) {
	srv := httptest.NewServer(NewServer(testLogger(), &fakePipeline{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
