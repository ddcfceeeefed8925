// Package uploads stores files in object storage and hands back public URLs.
package uploads

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/platform/httpx"
	"github.com/inkpress/inkpress/internal/rpc"
	"github.com/inkpress/inkpress/internal/shared"
)

// maxUploadBytes caps the multipart form held in memory.
const maxUploadBytes = 32 << 20

// ObjectPutter is the subset of the S3 client the handler needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Handler accepts multipart uploads from authenticated callers.
type Handler struct {
	logger   *slog.Logger
	client   ObjectPutter
	bucket   string
	resolver *auth.Resolver
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, client ObjectPutter, bucket string, resolver *auth.Resolver) *Handler {
	return &Handler{logger: logger, client: client, bucket: bucket, resolver: resolver}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// ServeHTTP handles POST /uploads. Any authenticated principal may upload.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	principal := h.resolver.Resolve(r.Context(), r.Header.Get(rpc.TokenHeader))
	if principal == nil {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "multipart form expected")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed Request", "file field missing")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s-%s", uuid.NewString(), header.Filename)
	_, err = h.client.PutObject(r.Context(), &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(header.Header.Get("Content-Type")),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		h.logger.Error("upload object", slog.String("key", key), slog.Any("error", err))
		httpx.RespondError(w, shared.ErrInternal)
		return
	}
	httpx.JSON(w, http.StatusOK, uploadResponse{
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", h.bucket, key),
	})
}
