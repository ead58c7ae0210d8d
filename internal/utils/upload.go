package utils

import (
	"errors"        // Error values
	"mime/multipart" // Uploaded file headers
	"os"            // Filesystem operations
	"path/filepath" // Path manipulation
	"strings"       // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Unique filenames
)

// ErrInvalidImageType is returned for uploads that are not jpg/jpeg/png
var ErrInvalidImageType = errors.New("only .jpg, .jpeg and .png files are allowed")

// SaveUploadedImage stores an uploaded image under uploadDir/folder with a
// unique name and returns the public URL it will be served from
func SaveUploadedImage(c *gin.Context, file *multipart.FileHeader, uploadDir, folder string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename)) // Validate by extension
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidImageType // Reject unsupported types
	}
	destDir := filepath.Join(uploadDir, folder) // Destination folder
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err // Return error if directory creation fails
	}
	filename := uuid.NewString() + ext // Unique filename
	// Save the file to disk
	if err := c.SaveUploadedFile(file, filepath.Join(destDir, filename)); err != nil {
		return "", err // Return error if saving fails
	}
	return "/uploads/" + folder + "/" + filename, nil // Public URL under the static route
}
