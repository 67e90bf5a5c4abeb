package models

import (
	"context"
	"errors"
	"strings"

	"github.com/defensoria/siri-backend/config"
	"github.com/defensoria/siri-backend/utils"
)

type User struct {
	ID          int    `gorm:"primary_key" json:"id"`
	Username    string `gorm:"size:100;uniqueIndex;not null" json:"username" binding:"required"`
	Email       string `gorm:"size:100" json:"email"`
	Password    string `gorm:"size:255;not null" json:"-"`
	IsSuperuser bool   `gorm:"not null;default:false" json:"is_superuser"`
}

// Client ties a login to the sector stock it operates on. Requests carry the
// client's stock id in context so fulfillment knows where goods land.
type Client struct {
	ID      int    `gorm:"primary_key" json:"id"`
	UserId  int    `gorm:"uniqueIndex;not null" json:"user_id"`
	User    *User  `json:"user,omitempty"`
	Name    string `gorm:"size:100;not null" json:"name" binding:"required"`
	StockId int    `gorm:"index;not null" json:"stock_id"`
	Stock   *Stock `json:"stock,omitempty"`
	Email   string `gorm:"size:100" json:"email"`
}

type NewClient struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	Name        string `json:"name" binding:"required"`
	StockId     int    `json:"stock_id" binding:"required"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
}

func (input *NewClient) validate(ctx context.Context, userId int) error {
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, userId); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Stock](ctx, input.StockId); err != nil {
		return errors.New("stock not found")
	}
	if len(strings.TrimSpace(input.Email)) > 0 && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

func CreateClient(ctx context.Context, input *NewClient) (*Client, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:    input.Username,
		Email:       input.Email,
		Password:    string(hashed),
		IsSuperuser: input.IsSuperuser,
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	client := Client{
		UserId:  user.ID,
		Name:    input.Name,
		StockId: input.StockId,
		Email:   input.Email,
	}
	if err := tx.Create(&client).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	client.User = &user
	return &client, nil
}

func UpdateClient(ctx context.Context, id int, input *NewClient) (*Client, error) {
	client, err := utils.FetchModel[Client](ctx, id, "User")
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, client.UserId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	userUpdates := map[string]interface{}{
		"Username":    input.Username,
		"Email":       input.Email,
		"IsSuperuser": input.IsSuperuser,
	}
	if len(input.Password) > 0 {
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		userUpdates["Password"] = string(hashed)
	}
	if err := tx.Model(&User{}).Where("id = ?", client.UserId).Updates(userUpdates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Model(&client).Updates(map[string]interface{}{
		"Name":    input.Name,
		"StockId": input.StockId,
		"Email":   input.Email,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return utils.FetchModel[Client](ctx, id, "User", "Stock")
}

func DeleteClient(ctx context.Context, id int) (*Client, error) {
	result, err := utils.FetchModel[Client](ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := utils.ResourceCountWhere[Order](ctx, "client_id = ?", id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errors.New("client has orders")
	}

	db := config.GetDB()
	tx := db.WithContext(ctx).Begin()
	if err := tx.Delete(&result).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Where("id = ?", result.UserId).Delete(&User{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return result, nil
}

func GetClient(ctx context.Context, id int) (*Client, error) {
	return utils.FetchModel[Client](ctx, id, "User", "Stock", "Stock.Sector")
}

func GetClientByUserId(ctx context.Context, userId int) (*Client, error) {
	db := config.GetDB()
	var client Client
	err := db.WithContext(ctx).Preload("User").Preload("Stock").
		Where("user_id = ?", userId).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func ListClients(ctx context.Context, name *string) ([]*Client, error) {
	db := config.GetDB()
	var results []*Client

	dbCtx := db.WithContext(ctx).Preload("User").Preload("Stock")
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	err := dbCtx.Order("name").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ListClientEmails returns every client email that is set. Used by the
// broadcast endpoint.
func ListClientEmails(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var emails []string
	err := db.WithContext(ctx).Model(&Client{}).
		Where("email != ''").Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// ListSuperuserEmails returns the emails of superuser accounts. The protocol
// expiry notifier mails these.
func ListSuperuserEmails(ctx context.Context) ([]string, error) {
	db := config.GetDB()
	var emails []string
	err := db.WithContext(ctx).Model(&User{}).
		Where("is_superuser = ? AND email != ''", true).Pluck("email", &emails).Error
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// Authenticate checks the credentials and returns the user on success.
func Authenticate(ctx context.Context, username string, password string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, errors.New("invalid username or password")
	}
	return &user, nil
}
