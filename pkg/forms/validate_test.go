package forms

import (
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
)

func repairSchema() []models.FormField {
	return []models.FormField{
		{ID: "f-phone", Label: "联系电话", Type: models.FieldTypeText, Required: true},
		{ID: "f-model", Label: "机型", Type: models.FieldTypeText, Required: true},
		{ID: "f-faults", Label: "故障类型", Type: models.FieldTypeCheckbox, Required: true, Options: []string{"屏幕", "电池", "主板"}},
		{ID: "f-remark", Label: "备注", Type: models.FieldTypeTextarea},
		{ID: "f-div", Label: "---", Type: models.FieldTypeDivider, Required: true},
		{ID: "f-note", Label: "提示", Type: models.FieldTypeNote, Required: true, Description: "请如实填写"},
	}
}

func TestValidate_ReportsEveryMissingField(t *testing.T) {
	errs := Validate(repairSchema(), models.FormData{})

	// All required value-bearing fields reported at once, not just the first.
	assert.Len(t, errs, 3)
	assert.Equal(t, RequiredMessage, errs["f-phone"])
	assert.Equal(t, RequiredMessage, errs["f-model"])
	assert.Equal(t, RequiredMessage, errs["f-faults"])
}

func TestValidate_LayoutFieldsNeverParticipate(t *testing.T) {
	errs := Validate(repairSchema(), models.FormData{
		"f-phone":  models.StringValue("138-0000-0000"),
		"f-model":  models.StringValue("X200"),
		"f-faults": models.MultiValue("屏幕"),
	})

	assert.NotContains(t, errs, "f-div")
	assert.NotContains(t, errs, "f-note")
	assert.Empty(t, errs)
}

func TestValidate_EmptyCheckboxEqualsAbsent(t *testing.T) {
	data := models.FormData{
		"f-phone":  models.StringValue("138-0000-0000"),
		"f-model":  models.StringValue("X200"),
		"f-faults": models.MultiValue(),
	}

	errs := Validate(repairSchema(), data)
	assert.Equal(t, map[string]string{"f-faults": RequiredMessage}, errs)
}

func TestValidate_EmptyStringEqualsAbsent(t *testing.T) {
	data := models.FormData{
		"f-phone":  models.StringValue(""),
		"f-model":  models.StringValue("X200"),
		"f-faults": models.MultiValue("电池"),
	}

	errs := Validate(repairSchema(), data)
	assert.Equal(t, map[string]string{"f-phone": RequiredMessage}, errs)
}

func TestValidate_OptionalFieldsNeverError(t *testing.T) {
	data := models.FormData{
		"f-phone":  models.StringValue("138-0000-0000"),
		"f-model":  models.StringValue("X200"),
		"f-faults": models.MultiValue("电池"),
		"f-remark": models.StringValue(""),
	}

	assert.Empty(t, Validate(repairSchema(), data))
}
