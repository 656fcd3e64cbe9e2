package s3client

import (
	"errors"
	"fmt"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// mapError wraps an SDK error, translating "does not exist" responses into
// missing (ErrNoSuchKey or ErrNoSuchBucket depending on the call).
//
// S3 reports absence in several shapes: modeled NoSuchKey/NoSuchBucket
// errors on GET, a bodiless 404 surfaced as NotFound on HEAD, and generic
// API errors carrying the code as a string.
func mapError(op string, err error, missing error) error {
	if isMissing(err) {
		return fmt.Errorf("%s: %w: %w", op, missing, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isMissing(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}

	return false
}
