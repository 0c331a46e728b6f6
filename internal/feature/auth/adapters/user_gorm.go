package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipe_backend/internal/feature/auth/domain/entity"
	"recipe_backend/internal/feature/auth/usecase"
	platformdb "recipe_backend/internal/platform/db"
)

// userGorm はUserRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLのどちらでも動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create はトランザクション内でユーザーを追加します。
// ユーザー名が重複する場合はusecase.ErrUsernameTaken、その他の制約違反は
// usecase.ErrIntegrityViolationを返します。失敗時はロールバックされます。
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	err := platformdb.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Create(u).Error
	})
	switch {
	case err == nil:
		return nil
	case platformdb.IsUniqueViolation(err):
		return errors.Join(usecase.ErrUsernameTaken, err)
	case platformdb.IsIntegrityViolation(err):
		return errors.Join(usecase.ErrIntegrityViolation, err)
	default:
		return err
	}
}

// FindByUsername はユーザー名でユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID はIDでユーザーを取得します。
// ユーザーが存在しない場合、usecase.ErrUserNotFoundを返します。
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// DeleteWithRecipes はユーザーと所有するレシピを同一トランザクションで削除し、
// 削除したレシピ数を返します。
func (r *userGorm) DeleteWithRecipes(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := platformdb.WithTx(ctx, r.db, func(tx *gorm.DB) error {
		res := tx.Exec("DELETE FROM recipes WHERE user_id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		res = tx.Delete(&entity.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
