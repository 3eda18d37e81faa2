package validation

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	MaxImageSize = 2 << 20
	MaxVideoSize = 5 << 20

	MaxPropertyImages = 10
	MaxPropertyVideos = 5
)

var (
	ErrFileRequired   = errors.New("لم يتم إرفاق أي ملف")
	ErrImageTooLarge  = errors.New("حجم الصورة يجب أن لا يتجاوز 2 ميجابايت")
	ErrVideoTooLarge  = errors.New("حجم الفيديو يجب أن لا يتجاوز 5 ميجابايت")
	ErrImageType      = errors.New("الصورة يجب أن تكون من الأنواع: jpeg, jpg, png, gif, webp, svg")
	ErrVideoType      = errors.New("الملف يجب أن يكون فيديو فقط")
	ErrTooManyImages  = errors.New("لا يمكن رفع أكثر من 10 صور.")
	ErrTooManyVideos  = errors.New("لا يمكن رفع أكثر من 5 فيديوهات.")
	ErrTooManyUploads = errors.New("عدد الملفات المرفوعة أكبر من المسموح")
)

var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

var AllowedVideoTypes = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
}

func ValidateImage(file *multipart.FileHeader) error {
	if file == nil || file.Size == 0 {
		return ErrFileRequired
	}
	if file.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	if !AllowedImageTypes[ext(file)] {
		return ErrImageType
	}
	return nil
}

func ValidateVideo(file *multipart.FileHeader) error {
	if file == nil || file.Size == 0 {
		return ErrFileRequired
	}
	if file.Size > MaxVideoSize {
		return ErrVideoTooLarge
	}
	if !AllowedVideoTypes[ext(file)] {
		return ErrVideoType
	}
	return nil
}

// ValidateImages checks the count first, then every file.
func ValidateImages(files []*multipart.FileHeader, max int) error {
	if len(files) > max {
		if max == MaxPropertyImages {
			return ErrTooManyImages
		}
		return ErrTooManyUploads
	}
	for _, f := range files {
		if err := ValidateImage(f); err != nil {
			return err
		}
	}
	return nil
}

func ValidateVideos(files []*multipart.FileHeader, max int) error {
	if len(files) > max {
		if max == MaxPropertyVideos {
			return ErrTooManyVideos
		}
		return ErrTooManyUploads
	}
	for _, f := range files {
		if err := ValidateVideo(f); err != nil {
			return err
		}
	}
	return nil
}

func ext(file *multipart.FileHeader) string {
	return strings.ToLower(filepath.Ext(file.Filename))
}
