package awss3

import (
	"errors"

	"s3-toolkit/core/storage"

	"github.com/aws/smithy-go"
)

// wrap classifies an SDK error as a remote service error carrying the S3 error code.
func wrap(op, bucket, key string, err error) error {
	return storage.RemoteError(op, bucket, key, errorCode(err), err)
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
