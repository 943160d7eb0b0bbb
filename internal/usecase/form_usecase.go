package usecase

import (
	"context"
	"errors"
	"fmt"

	"advanced-form/internal/domain"
	"advanced-form/internal/form"
	"advanced-form/pkg/logger"
	"advanced-form/pkg/storage"
	"advanced-form/pkg/validation"
)

type formUsecase struct {
	checker *validation.Checker
	sink    domain.AvatarSink
	bucket  string
	results domain.ResultRepository
}

// NewFormUsecase wires the schema checker, the avatar sink and the result
// store. A nil sink skips avatar delivery.
func NewFormUsecase(checker *validation.Checker, sink domain.AvatarSink, bucket string, results domain.ResultRepository) domain.FormUsecase {
	if checker == nil {
		checker = validation.NewChecker(nil)
	}
	return &formUsecase{
		checker: checker,
		sink:    sink,
		bucket:  bucket,
		results: results,
	}
}

func (uc *formUsecase) NewController(version form.Version) *form.Controller {
	return form.NewController(form.NewSchema(version, uc.checker))
}

func (uc *formUsecase) Submit(ctx context.Context, sessionID string, ctrl *form.Controller) (string, error) {
	var result string
	err := ctrl.Submit(ctx, func(ctx context.Context, values form.FormValues) error {
		uc.deliverAvatar(ctx, values.Avatar)

		text, err := form.Serialize(values)
		if err != nil {
			return err
		}
		result = text

		if err := uc.results.Save(ctx, sessionID, ctrl.Version(), text); err != nil {
			logger.Log.Warn("Failed to store submission result",
				"session_id", sessionID, "version", int(ctrl.Version()), "error", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return result, nil
}

// deliverAvatar uploads the avatar and waits for completion. The outcome is
// only logged; the submission proceeds either way.
func (uc *formUsecase) deliverAvatar(ctx context.Context, avatar *form.Avatar) {
	if avatar == nil || uc.sink == nil {
		return
	}
	task := storage.UploadAsync(ctx, uc.sink, uc.bucket, avatar.FileName, avatar.Content, avatar.ContentType)
	if err := task.Wait(ctx); err != nil {
		logger.Log.Warn("Avatar upload failed",
			"bucket", uc.bucket, "key", avatar.FileName, "error", err)
		return
	}
	logger.Log.Info("Avatar uploaded", "bucket", uc.bucket, "key", avatar.FileName, "size", avatar.Size)
}

func (uc *formUsecase) LastResult(ctx context.Context, sessionID string, version form.Version) (string, error) {
	result, err := uc.results.Get(ctx, sessionID, version)
	if errors.Is(err, domain.ErrResultNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load last result: %w", err)
	}
	return result, nil
}
