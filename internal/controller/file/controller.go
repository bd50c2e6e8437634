// Package file provides HTTP handlers for file-related operations.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"HireDesk-backend/internal/database"
	"HireDesk-backend/internal/model"
	"HireDesk-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB      *database.Instance
	Storage StorageClient
}

const (
	resumeObjectPrefix      = "resumes"
	coverLetterObjectPrefix = "cover-letters"
)

// NewFileController creates a new instance of FileController
func NewFileController(db *database.Instance, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// UploadResume stores a resume file for the requesting candidate and sets it
// as the profile's default resume.
// @Summary Upload resume file for candidate
// @Description Only file that smaller than 10 MB with .pdf extension is permitted
// @Tags File
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param resume formData file true "Upload your resume file"
// @Success 200 {object} model.CandidateProfile "Successfully upload resume"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/profile/resume [post]
func (fc *FileController) UploadResume(c *gin.Context) {
	profile, fileBytes, ok := fc.candidateUpload(c, "resume")
	if !ok {
		return
	}

	if err := fc.persistFileData(&profile.Resume, fileBytes, ".pdf", resumeObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store resume: %s", err.Error()),
		})
		return
	}

	if err := fc.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UploadCoverLetter stores a cover letter file for the requesting candidate
// and sets it as the profile's default cover letter.
// @Summary Upload cover letter file for candidate
// @Description Only file that smaller than 10 MB with .pdf extension is permitted
// @Tags File
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param cover_letter formData file true "Upload your cover letter file"
// @Success 200 {object} model.CandidateProfile "Successfully upload cover letter"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as candidate"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /candidate/profile/cover-letter [post]
func (fc *FileController) UploadCoverLetter(c *gin.Context) {
	profile, fileBytes, ok := fc.candidateUpload(c, "cover_letter")
	if !ok {
		return
	}

	if err := fc.persistFileData(&profile.CoverLetter, fileBytes, ".pdf", coverLetterObjectPrefix); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store cover letter: %s", err.Error()),
		})
		return
	}

	if err := fc.DB.Session(&gorm.Session{FullSaveAssociations: true}).Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user information: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// candidateUpload reads the uploaded form file for the requesting candidate,
// writing the error response itself when it cannot.
func (fc *FileController) candidateUpload(c *gin.Context, fName string) (model.CandidateProfile, []byte, bool) {
	var profile = model.CandidateProfile{}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return profile, nil, false
	}

	if err := fc.DB.Preload("User").Where("user_id = ?", user.ID.String()).First(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user information from database: %s", err.Error()),
		})
		return profile, nil, false
	}

	rawFile, err := c.FormFile(fName)
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return profile, nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return profile, nil, false
	}

	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if extension != ".pdf" {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return profile, nil, false
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return profile, nil, false
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return profile, nil, false
	}

	return profile, fileBytes, true
}

// GetFile retrieves a file from the database and sends it as a downloadable
// attachment in the response.
// @Summary Retrieve downloadable attachment
// @Tags File
// @Produce octet-stream
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "ID of wanted file"
// @Success 200 {string} binary "Successfully retrieve file"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Given file id not found"
// @Failure 500 {object} utilities.ErrorResponse "Fail to send file content"
// @Router /file/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	var file model.File
	id := c.Param("id")

	if err := fc.DB.First(&file, id).Error; err != nil {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "File not found"})
		return
	}

	fc.writeFileResponse(c, &file)
}

func (fc *FileController) writeFileResponse(c *gin.Context, file *model.File) {
	c.Writer.Header().Set("Content-Disposition", "attachment; filename="+fmt.Sprint(file.ID)+file.Extension)
	c.Writer.Header().Set("Content-Type", "application/octet-stream")

	if file.StorageObjectName != nil {
		if fc.Storage == nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: "Cloud storage is disabled while the requested file is stored remotely",
			})
			return
		}
		reader, size, err := fc.Storage.DownloadFile(*file.StorageObjectName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to download file from storage: %s", err.Error()),
			})
			return
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Printf("failed to close storage reader: %v", err)
			}
		}()

		if size > 0 {
			c.Writer.Header().Set("Content-Length", fmt.Sprint(size))
		}
		if _, err := io.Copy(c.Writer, reader); err != nil {
			fc.handleWriterError(c)
		}
		return
	}

	c.Writer.Header().Set("Content-Length", fmt.Sprint(len(file.Content)))
	if _, err := c.Writer.Write(file.Content); err != nil {
		fc.handleWriterError(c)
	}
}

func (fc *FileController) handleWriterError(c *gin.Context) {
	if !c.Writer.Written() {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Failed to send file content",
		})
	} else {
		c.Abort()
	}
}

func (fc *FileController) persistFileData(file *model.File, fileBytes []byte, extension, prefix string) error {
	file.Extension = extension
	if fc.Storage == nil {
		file.Content = fileBytes
		file.StorageObjectName = nil
		return nil
	}

	objectName := fmt.Sprintf("%s/%s%s", prefix, uuid.NewString(), extension)
	if err := fc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		return err
	}

	file.StorageObjectName = &objectName
	file.Content = nil
	return nil
}
