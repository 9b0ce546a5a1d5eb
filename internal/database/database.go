package database

import (
	"blog-content-service/internal/config"
	"blog-content-service/internal/logging"
	"blog-content-service/internal/models"
	"fmt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"net/url"
)

// createArticleStateType creates the enum backing models.ArticleState unless it already exists.
const createArticleStateType = `
DO $$
BEGIN
	CREATE TYPE article_state AS ENUM ('unspecified', 'published', 'hidden');
EXCEPTION
	WHEN duplicate_object THEN NULL;
END
$$;`

func InitDatabase(c *config.Configuration, l logging.Logger) (*gorm.DB, error) {
	l.LogInfo(logging.GetLogTypeInitialization(), "Initializing Database")

	dsn := url.URL{
		User:     url.UserPassword(c.Database.Username, c.Database.Password),
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.DatabaseName,
		RawQuery: (&url.Values{"sslmode": []string{c.Database.SslMode}}).Encode(),
	}

	// PostgresSQL
	db, err := gorm.Open(
		postgres.Open(dsn.String()),
		&gorm.Config{Logger: logging.InitGormLogger(c)})

	if err != nil {
		l.LogErrorf(logging.GetLogTypeInitialization(), "error initializing database: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.LogErrorf(logging.GetLogTypeInitialization(), "error setting connection properties on db conn pool")
		return nil, err
	}
	sqlDB.SetMaxIdleConns(c.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.Database.ConnMaxLifetime.Duration)

	l.LogDebug(logging.GetLogTypeInitialization(), "connected to Database")

	if err := Migrate(db, l); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the article_state enum and brings the tables of the content store up to date.
func Migrate(db *gorm.DB, l logging.Logger) error {
	if err := db.Exec(createArticleStateType).Error; err != nil {
		l.LogErrorf(logging.GetLogTypeInitialization(), "error creating type article_state: %v", err)
		return err
	}

	for _, model := range []any{&models.Category{}, &models.Tag{}, &models.Article{}, &models.ArticleTag{}} {
		if err := db.AutoMigrate(model); err != nil {
			l.LogErrorf(logging.GetLogTypeInitialization(), "error auto migrating %T: %v", model, err)
			return err
		}
	}

	return nil
}
