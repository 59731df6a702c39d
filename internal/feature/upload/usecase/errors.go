package usecase

import "errors"

// ErrUploadNotFound はアップロードが存在しない場合に返されます。
var ErrUploadNotFound = errors.New("upload not found")
