package models_test

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/zakaah-management/backend/internal/models"
)

func (suite *TestSuiteStandard) TestResourceNotFoundNaming() {
	err := models.DB.First(&models.Company{}, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Contains(suite.T(), err.Error(), "company")

	err = models.DB.First(&models.Obligation{}, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Contains(suite.T(), err.Error(), "obligation")
}

func (suite *TestSuiteStandard) TestClosedDatabaseGeneralError() {
	suite.CloseDB()

	err := models.DB.First(&models.Company{}, uuid.New()).Error
	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
