// files.go — 附件上传/删除 (平台文件 API)。
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/multi-agent/agent-console/pkg/errors"
)

// UploadFile 上传附件, 返回平台侧文件描述。文件 ID 随后可放进
// RunRequest.Attachments 引用。
func (c *Client) UploadFile(ctx context.Context, filename string, content io.Reader) (*UploadedFile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, errors.Wrap(err, "Client.UploadFile", "create form file")
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, errors.Wrap(err, "Client.UploadFile", "copy content")
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "Client.UploadFile", "finalize form")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/files", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "Client.UploadFile", "POST /v1/files")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf("Client.UploadFile", "POST /v1/files status %d: %s", resp.StatusCode, body)
	}

	var uploaded UploadedFile
	if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
		return nil, errors.Wrap(err, "Client.UploadFile", "decode response")
	}
	return &uploaded, nil
}

// DeleteFile 删除平台侧文件。文件不存在视为已删除, 不报错。
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/v1/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpCli.Do(req)
	if err != nil {
		return errors.Wrap(err, "Client.DeleteFile", "DELETE /v1/files")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK &&
		resp.StatusCode != http.StatusNoContent &&
		resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.Newf("Client.DeleteFile", "DELETE /v1/files/%s status %d: %s", fileID, resp.StatusCode, body)
	}
	return nil
}
