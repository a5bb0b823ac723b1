// Command seed loads a YAML catalog of users, courses, lessons and
// completions through the service layer and prints a bearer token per user.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursebridge-backend/internal/app"
	httpMW "github.com/yungbote/coursebridge-backend/internal/http/middleware"
	"github.com/yungbote/coursebridge-backend/internal/platform/dbctx"
	"github.com/yungbote/coursebridge-backend/internal/services"
)

func main() {
	var path string
	var ttl time.Duration
	flag.StringVar(&path, "file", "scripts/catalog.example.yaml", "catalog YAML file")
	flag.DurationVar(&ttl, "token-ttl", 24*time.Hour, "lifetime of printed tokens")
	flag.Parse()

	catalog, err := LoadCatalog(path)
	if err != nil {
		fmt.Printf("load catalog: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := seed(context.Background(), a, catalog, ttl); err != nil {
		a.Log.Error("seed failed", "error", err)
		a.Close()
		os.Exit(1)
	}
}

func seed(ctx context.Context, a *app.App, c *Catalog, ttl time.Duration) error {
	dbc := dbctx.Context{Ctx: ctx}

	userIDs := map[string]uuid.UUID{}
	for _, u := range c.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		existing, err := a.Repos.User.GetByEmails(dbc, []string{email})
		if err != nil {
			return fmt.Errorf("lookup %s: %w", email, err)
		}
		if len(existing) > 0 {
			userIDs[email] = existing[0].ID
			continue
		}
		created, err := a.Services.User.Create(dbc, services.CreateUserInput{
			Email: email, FirstName: u.FirstName, LastName: u.LastName,
		})
		if err != nil {
			return fmt.Errorf("create user %s: %w", email, err)
		}
		userIDs[email] = created.ID
	}

	lessonIDs := map[string]map[int]uuid.UUID{}
	for _, cf := range c.Courses {
		meta, err := toJSON(cf.Metadata)
		if err != nil {
			return fmt.Errorf("course %s metadata: %w", cf.Key, err)
		}
		detail, err := a.Services.Course.Create(dbc, services.CreateCourseInput{
			Title: cf.Title, Description: cf.Description, Tags: cf.Tags, Metadata: meta,
		})
		if err != nil {
			return fmt.Errorf("create course %s: %w", cf.Key, err)
		}
		byOrder := map[int]uuid.UUID{}
		for _, lf := range cf.Lessons {
			lmeta, err := toJSON(lf.Metadata)
			if err != nil {
				return fmt.Errorf("lesson %q metadata: %w", lf.Title, err)
			}
			lesson, err := a.Services.Lesson.Create(dbc, services.CreateLessonInput{
				CourseID: detail.Course.ID, Title: lf.Title, Content: lf.Content, Order: lf.Order, Metadata: lmeta,
			})
			if err != nil {
				return fmt.Errorf("create lesson %q in %s: %w", lf.Title, cf.Key, err)
			}
			byOrder[lf.Order] = lesson.ID
		}
		lessonIDs[cf.Key] = byOrder
		a.Log.Info("seeded course", "key", cf.Key, "course_id", detail.Course.ID, "lessons", len(byOrder))
	}

	for _, comp := range c.Completions {
		userID := userIDs[strings.ToLower(strings.TrimSpace(comp.Email))]
		lessonID := lessonIDs[comp.Course][comp.Order]
		if _, err := a.Services.Lesson.MarkComplete(dbc, lessonID, userID); err != nil {
			return fmt.Errorf("complete %s/%d for %s: %w", comp.Course, comp.Order, comp.Email, err)
		}
	}

	for _, u := range c.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		token, err := httpMW.SignToken(a.Cfg.JWTSecretKey, userIDs[email], ttl)
		if err != nil {
			fmt.Printf("%s\t%s\t(no token: %v)\n", email, userIDs[email], err)
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", email, userIDs[email], token)
	}
	return nil
}
