package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskboard/taskboard-api/internal/constants"
	"github.com/taskboard/taskboard-api/internal/database"
	"github.com/taskboard/taskboard-api/internal/dto"
	"github.com/taskboard/taskboard-api/internal/models"
	"github.com/taskboard/taskboard-api/internal/repository"
	"github.com/taskboard/taskboard-api/internal/services"
	"github.com/taskboard/taskboard-api/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// FileHandlerTestSuite defines the test suite for FileHandler
type FileHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *FileHandler
	storageRoot string
}

func (suite *FileHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Step{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.storageRoot = suite.T().TempDir()
	fileStorage := storage.NewLocalFileStorage(suite.storageRoot, "http://localhost:8080")

	attachmentRepo := repository.NewAttachmentRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewFileHandler(services.NewAttachmentService(attachmentRepo, taskRepo, fileStorage))

	gin.SetMode(gin.TestMode)
}

func (suite *FileHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *FileHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "hashedpassword"}
	suite.db.Create(user)
	return user
}

func (suite *FileHandlerTestSuite) createTestTask(title string, ownerID uint64) *models.Task {
	task := &models.Task{Title: title, OwnerID: ownerID, Position: 1}
	suite.db.Create(task)
	return task
}

func (suite *FileHandlerTestSuite) createTestAttachment(taskID uint64, title string, position int) *models.Attachment {
	attachment := &models.Attachment{
		TaskID:   taskID,
		URL:      "http://localhost:8080/attachments/" + title,
		Title:    title,
		Position: position,
	}
	suite.db.Create(attachment)
	return attachment
}

// multipartBody builds a multipart form with one "files" part per name.
func (suite *FileHandlerTestSuite) multipartBody(filenames ...string) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for _, name := range filenames {
		part, err := writer.CreateFormFile("files", name)
		suite.Require().NoError(err)
		_, err = part.Write([]byte("content of " + name))
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())
	return body, writer.FormDataContentType()
}

func (suite *FileHandlerTestSuite) uploadContext(taskID uint64, userID uint64, filenames ...string) (*gin.Context, *httptest.ResponseRecorder) {
	body, contentType := suite.multipartBody(filenames...)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/files/%d", taskID), body)
	req.Header.Set("Content-Type", contentType)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Params = gin.Params{{Key: "taskId", Value: strconv.FormatUint(taskID, 10)}}

	return c, w
}

// TestUploadFiles_BatchPositions uploads three files and expects positions
// to continue after the task's existing attachments, in submission order.
func (suite *FileHandlerTestSuite) TestUploadFiles_BatchPositions() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("With files", user.ID)
	suite.createTestAttachment(task.ID, "existing.pdf", 1)
	suite.createTestAttachment(task.ID, "older.pdf", 2)

	c, w := suite.uploadContext(task.ID, user.ID, "first.txt", "second.txt", "third.txt")

	suite.handler.UploadFiles(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var response []dto.AttachmentDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response, 3)

	assert.Equal(suite.T(), "first.txt", response[0].Title)
	assert.Equal(suite.T(), 3, response[0].Position)
	assert.Equal(suite.T(), "second.txt", response[1].Title)
	assert.Equal(suite.T(), 4, response[1].Position)
	assert.Equal(suite.T(), "third.txt", response[2].Title)
	assert.Equal(suite.T(), 5, response[2].Position)

	for _, attachment := range response {
		assert.True(suite.T(), strings.HasPrefix(attachment.URL, "http://localhost:8080/attachments/"))
		assert.True(suite.T(), strings.HasSuffix(attachment.URL, ".txt"))

		// The stored blob uses a generated name, not the client filename.
		stored := filepath.Base(attachment.URL)
		assert.NotEqual(suite.T(), attachment.Title, stored)
		_, err := os.Stat(filepath.Join(suite.storageRoot, constants.AttachmentContainer, stored))
		assert.NoError(suite.T(), err)
	}
}

// TestUploadFiles_MissingTask is a 404, distinguished from the foreign case.
func (suite *FileHandlerTestSuite) TestUploadFiles_MissingTask() {
	user := suite.createTestUser("owner@example.com")

	c, w := suite.uploadContext(9999, user.ID, "a.txt")

	suite.handler.UploadFiles(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUploadFiles_ForeignTaskForbidden is a 403, unlike the fused task
// read/edit/delete paths.
func (suite *FileHandlerTestSuite) TestUploadFiles_ForeignTaskForbidden() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")
	task := suite.createTestTask("Private", owner.ID)

	c, w := suite.uploadContext(task.ID, intruder.ID, "a.txt")

	suite.handler.UploadFiles(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Attachment{}).Where("task_id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *FileHandlerTestSuite) jsonContext(method, url string, body []byte, userID uint64, paramName string, paramID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)
	c.Params = gin.Params{{Key: paramName, Value: strconv.FormatUint(paramID, 10)}}

	return c, w
}

// TestRenameFile changes the title only; the stored URL is untouched.
func (suite *FileHandlerTestSuite) TestRenameFile() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("With files", user.ID)
	attachment := suite.createTestAttachment(task.ID, "report.pdf", 1)

	body, _ := json.Marshal(map[string]string{"title": "final-report.pdf"})
	c, w := suite.jsonContext("PUT", "/api/files/1", body, user.ID, "id", attachment.ID)

	suite.handler.RenameFile(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Attachment
	suite.db.First(&updated, attachment.ID)
	assert.Equal(suite.T(), "final-report.pdf", updated.Title)
	assert.Equal(suite.T(), attachment.URL, updated.URL)
}

func (suite *FileHandlerTestSuite) TestRenameFile_ForeignForbidden() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")
	task := suite.createTestTask("Private", owner.ID)
	attachment := suite.createTestAttachment(task.ID, "report.pdf", 1)

	body, _ := json.Marshal(map[string]string{"title": "stolen.pdf"})
	c, w := suite.jsonContext("PUT", "/api/files/1", body, intruder.ID, "id", attachment.ID)

	suite.handler.RenameFile(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestDeleteFile removes the row; the storage delete tolerates the blob
// never having existed.
func (suite *FileHandlerTestSuite) TestDeleteFile() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("With files", user.ID)
	attachment := suite.createTestAttachment(task.ID, "report.pdf", 1)

	c, w := suite.jsonContext("DELETE", "/api/files/1", nil, user.ID, "id", attachment.ID)

	suite.handler.DeleteFile(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Attachment{}).Where("id = ?", attachment.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

func (suite *FileHandlerTestSuite) TestDeleteFile_MissingNotFound() {
	user := suite.createTestUser("owner@example.com")

	c, w := suite.jsonContext("DELETE", "/api/files/1", nil, user.ID, "id", 12345)

	suite.handler.DeleteFile(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestFileHandlerTestSuite runs the test suite
func TestFileHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FileHandlerTestSuite))
}
