package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_ReplacesExactlyOneKey(t *testing.T) {
	schema := repairSchema()
	original := models.FormData{
		"f-phone": models.StringValue("138-0000-0000"),
		"f-model": models.StringValue("X200"),
	}

	updated, err := Apply(schema, original, "f-model", models.StringValue("X300"))
	require.NoError(t, err)

	assert.Equal(t, "X300", updated["f-model"].Text)
	assert.Equal(t, "138-0000-0000", updated["f-phone"].Text)

	// Immutable-update semantics: the input bag is untouched.
	assert.Equal(t, "X200", original["f-model"].Text)
}

func TestApply_Rejections(t *testing.T) {
	schema := repairSchema()

	testCases := []struct {
		name    string
		fieldID string
		value   models.FieldValue
		want    error
	}{
		{"unknown field", "ghost", models.StringValue("x"), ErrUnknownField},
		{"divider holds no value", "f-div", models.StringValue("x"), ErrLayoutField},
		{"note holds no value", "f-note", models.StringValue("x"), ErrLayoutField},
		{"scalar into checkbox", "f-faults", models.StringValue("屏幕"), ErrValueShape},
		{"array into text", "f-phone", models.MultiValue("a"), ErrValueShape},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Apply(schema, models.FormData{}, tc.fieldID, tc.value)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProject(t *testing.T) {
	schema := []models.FormField{
		{ID: "f-phone", Label: "联系电话", Type: models.FieldTypeText},
		{ID: "f-faults", Label: "故障类型", Type: models.FieldTypeCheckbox},
		{ID: "f-photo", Label: "照片", Type: models.FieldTypeFile},
		{ID: "f-note", Label: "提示", Type: models.FieldTypeNote, Description: "仅售后可见"},
	}

	data := models.FormData{
		"f-faults": models.MultiValue("屏幕", "电池"),
		"f-photo":  models.StringValue("/uploads/a1b2c3.jpg"),
	}

	views := Project(schema, data)
	require.Len(t, views, 4)

	assert.False(t, views[0].Answered)
	assert.Equal(t, Unanswered, views[0].Display)

	assert.True(t, views[1].Answered)
	assert.Equal(t, []string{"屏幕", "电池"}, views[1].Chips)

	assert.True(t, views[2].Answered)
	assert.Equal(t, "/uploads/a1b2c3.jpg", views[2].FileRef)

	assert.False(t, views[3].Answered)
	assert.Equal(t, "仅售后可见", views[3].Display)
}

type stubUploader struct {
	stored string
	err    error
	calls  int
}

func (s *stubUploader) Upload(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	s.calls++

	return s.stored, s.err
}

func TestAttachFile(t *testing.T) {
	schema := []models.FormField{
		{ID: "f-photo", Label: "照片", Type: models.FieldTypeFile},
		{ID: "f-phone", Label: "联系电话", Type: models.FieldTypeText},
	}

	t.Run("stores the server-assigned name", func(t *testing.T) {
		uploader := &stubUploader{stored: "/uploads/9f8e7d.jpg"}

		data, err := AttachFile(context.Background(), schema, models.FormData{}, "f-photo", uploader, "photo.jpg", []byte("raw"), "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/9f8e7d.jpg", data["f-photo"].Text)
		assert.Equal(t, 1, uploader.calls)
	})

	t.Run("upload failure leaves the field unanswered", func(t *testing.T) {
		uploader := &stubUploader{err: errors.New("disk full")}
		original := models.FormData{"f-phone": models.StringValue("138")}

		_, err := AttachFile(context.Background(), schema, original, "f-photo", uploader, "photo.jpg", []byte("raw"), "image/jpeg")
		require.Error(t, err)
		assert.NotContains(t, original, "f-photo")

		// The error names the field and keeps the backend cause reachable.
		var uploadErr *UploadError

		require.ErrorAs(t, err, &uploadErr)
		assert.Equal(t, "f-photo", uploadErr.FieldID)
		assert.ErrorContains(t, uploadErr.Err, "disk full")
	})

	t.Run("refuses non-file fields", func(t *testing.T) {
		uploader := &stubUploader{stored: "x"}

		_, err := AttachFile(context.Background(), schema, models.FormData{}, "f-phone", uploader, "a", nil, "")
		assert.ErrorIs(t, err, ErrValueShape)
		assert.Zero(t, uploader.calls)
	})
}
