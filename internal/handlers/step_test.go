package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StepHandlerTestSuite defines the test suite for StepHandler
type StepHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *StepHandler
}

func (suite *StepHandlerTestSuite) SetupTest() {
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

	stepRepo := repository.NewStepRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewStepHandler(services.NewStepService(stepRepo, taskRepo))

	gin.SetMode(gin.TestMode)
}

func (suite *StepHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *StepHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "hashedpassword"}
	suite.db.Create(user)
	return user
}

func (suite *StepHandlerTestSuite) createTestTask(title string, ownerID uint64) *models.Task {
	task := &models.Task{Title: title, OwnerID: ownerID, Position: 1}
	suite.db.Create(task)
	return task
}

func (suite *StepHandlerTestSuite) createTestStep(taskID uint64, description string, position int) *models.Step {
	step := &models.Step{TaskID: taskID, Description: description, Position: position}
	suite.db.Create(step)
	return step
}

func (suite *StepHandlerTestSuite) stepContext(method, url string, body []byte, userID uint64, paramName string, paramID uint64) (*gin.Context, *httptest.ResponseRecorder) {
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

// TestCreateStep_SequentialPositions appends steps and expects 1..N within
// the parent task.
func (suite *StepHandlerTestSuite) TestCreateStep_SequentialPositions() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("Parent", user.ID)

	for i := 1; i <= 3; i++ {
		body, _ := json.Marshal(map[string]interface{}{"description": "step", "done": false})
		c, w := suite.stepContext("POST", "/api/steps/1", body, user.ID, "taskId", task.ID)

		suite.handler.CreateStep(c)

		suite.Require().Equal(http.StatusCreated, w.Code)

		var created dto.StepDTO
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(suite.T(), i, created.Position)
	}
}

func (suite *StepHandlerTestSuite) TestCreateStep_MissingTaskNotFound() {
	user := suite.createTestUser("owner@example.com")

	body, _ := json.Marshal(map[string]interface{}{"description": "step"})
	c, w := suite.stepContext("POST", "/api/steps/9999", body, user.ID, "taskId", 9999)

	suite.handler.CreateStep(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *StepHandlerTestSuite) TestCreateStep_ForeignTaskForbidden() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")
	task := suite.createTestTask("Private", owner.ID)

	body, _ := json.Marshal(map[string]interface{}{"description": "step"})
	c, w := suite.stepContext("POST", "/api/steps/1", body, intruder.ID, "taskId", task.ID)

	suite.handler.CreateStep(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var count int64
	suite.db.Model(&models.Step{}).Where("task_id = ?", task.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestUpdateStep_TogglesDone flips the completion flag through the handler.
func (suite *StepHandlerTestSuite) TestUpdateStep_TogglesDone() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("Parent", user.ID)
	step := suite.createTestStep(task.ID, "pending", 1)

	body, _ := json.Marshal(map[string]interface{}{"description": "pending", "done": true})
	c, w := suite.stepContext("PUT", "/api/steps/1", body, user.ID, "id", step.ID)

	suite.handler.UpdateStep(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var updated models.Step
	suite.db.First(&updated, step.ID)
	assert.True(suite.T(), updated.Done)
}

func (suite *StepHandlerTestSuite) TestUpdateStep_ForeignForbidden() {
	owner := suite.createTestUser("owner@example.com")
	intruder := suite.createTestUser("intruder@example.com")
	task := suite.createTestTask("Private", owner.ID)
	step := suite.createTestStep(task.ID, "pending", 1)

	body, _ := json.Marshal(map[string]interface{}{"description": "hijacked", "done": true})
	c, w := suite.stepContext("PUT", "/api/steps/1", body, intruder.ID, "id", step.ID)

	suite.handler.UpdateStep(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var unchanged models.Step
	suite.db.First(&unchanged, step.ID)
	assert.Equal(suite.T(), "pending", unchanged.Description)
	assert.False(suite.T(), unchanged.Done)
}

func (suite *StepHandlerTestSuite) TestDeleteStep() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("Parent", user.ID)
	step := suite.createTestStep(task.ID, "doomed", 1)

	c, w := suite.stepContext("DELETE", "/api/steps/1", nil, user.ID, "id", step.ID)

	suite.handler.DeleteStep(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Step{}).Where("id = ?", step.ID).Count(&count)
	assert.Zero(suite.T(), count)
}

// TestReorderSteps_FullPermutation mirrors the task reorder contract at the
// step level.
func (suite *StepHandlerTestSuite) TestReorderSteps_FullPermutation() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("Parent", user.ID)
	a := suite.createTestStep(task.ID, "A", 1)
	b := suite.createTestStep(task.ID, "B", 2)
	cStep := suite.createTestStep(task.ID, "C", 3)

	body, _ := json.Marshal([]uint64{cStep.ID, a.ID, b.ID})
	c, w := suite.stepContext("POST", "/api/steps/1/reorder", body, user.ID, "taskId", task.ID)

	suite.handler.ReorderSteps(c)

	suite.Require().Equal(http.StatusOK, w.Code)

	var steps []models.Step
	suite.db.Where("task_id = ?", task.ID).Find(&steps)
	positions := make(map[uint64]int, len(steps))
	for _, step := range steps {
		positions[step.ID] = step.Position
	}

	assert.Equal(suite.T(), 1, positions[cStep.ID])
	assert.Equal(suite.T(), 2, positions[a.ID])
	assert.Equal(suite.T(), 3, positions[b.ID])
}

// TestReorderSteps_StepFromOtherTaskRejected names a step belonging to a
// different task: the whole request fails and nothing moves.
func (suite *StepHandlerTestSuite) TestReorderSteps_StepFromOtherTaskRejected() {
	user := suite.createTestUser("owner@example.com")
	task := suite.createTestTask("Parent", user.ID)
	otherTask := suite.createTestTask("Other", user.ID)
	a := suite.createTestStep(task.ID, "A", 1)
	foreign := suite.createTestStep(otherTask.ID, "X", 1)

	body, _ := json.Marshal([]uint64{foreign.ID, a.ID})
	c, w := suite.stepContext("POST", "/api/steps/1/reorder", body, user.ID, "taskId", task.ID)

	suite.handler.ReorderSteps(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var unchanged models.Step
	suite.db.First(&unchanged, a.ID)
	assert.Equal(suite.T(), 1, unchanged.Position)
}

// TestStepHandlerTestSuite runs the test suite
func TestStepHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(StepHandlerTestSuite))
}
