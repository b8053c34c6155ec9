package models_test

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/zakaah-management/backend/internal/models"
	"github.com/zakaah-management/backend/internal/types"
)

func (suite *TestSuiteStandard) TestCompanyTrimWhitespace() {
	name := " Al Baraka Trading  \t"
	note := "  Whitespace everywhere   "

	company := suite.createTestCompany(models.Company{
		Name: name,
		Note: note,
	})

	assert.Equal(suite.T(), strings.TrimSpace(name), company.Name)
	assert.Equal(suite.T(), strings.TrimSpace(note), company.Note)
}

func (suite *TestSuiteStandard) TestCompanyDefaultCurrency() {
	company := suite.createTestCompany(models.Company{})
	assert.Equal(suite.T(), "SAR", company.Currency)

	company = suite.createTestCompany(models.Company{Currency: "AED"})
	assert.Equal(suite.T(), "AED", company.Currency)
}

func (suite *TestSuiteStandard) TestCompanyNameUnique() {
	_ = suite.createTestCompany(models.Company{Name: "Unique Co"})

	err := models.DB.Create(&models.Company{Name: "Unique Co"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrCompanyNameNotUnique)
}

func (suite *TestSuiteStandard) TestCompanyDeleteBlocked() {
	company := suite.createTestCompany(models.Company{})
	_ = suite.createTestObligation(models.Obligation{
		CompanyID:   company.ID,
		PeriodStart: types.NewDay(2023, 7, 19),
		TotalDue:    decimal.NewFromFloat(100),
	})

	err := models.DB.Delete(&company).Error
	assert.ErrorIs(suite.T(), err, models.ErrCompanyReferenced)
}

func (suite *TestSuiteStandard) TestCompanyDeleteEmpty() {
	company := suite.createTestCompany(models.Company{})

	err := models.DB.Delete(&company).Error
	assert.Nil(suite.T(), err)
}
