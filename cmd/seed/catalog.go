package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

type Catalog struct {
	Users       []UserFixture       `yaml:"users"`
	Courses     []CourseFixture     `yaml:"courses"`
	Completions []CompletionFixture `yaml:"completions"`
}

type UserFixture struct {
	Email     string `yaml:"email"`
	FirstName string `yaml:"firstName"`
	LastName  string `yaml:"lastName"`
}

type CourseFixture struct {
	Key         string          `yaml:"key"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Tags        []string        `yaml:"tags"`
	Metadata    map[string]any  `yaml:"metadata"`
	Lessons     []LessonFixture `yaml:"lessons"`
}

type LessonFixture struct {
	Title    string         `yaml:"title"`
	Content  string         `yaml:"content"`
	Order    int            `yaml:"order"`
	Metadata map[string]any `yaml:"metadata"`
}

// CompletionFixture marks the lesson at Order in the course Course (a course
// key) complete for the user with Email.
type CompletionFixture struct {
	Email  string `yaml:"email"`
	Course string `yaml:"course"`
	Order  int    `yaml:"order"`
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

func ParseCatalog(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// validate checks references inside the file. Field level rules are left to
// the services so the seed cannot drift from the API.
func (c *Catalog) validate() error {
	emails := map[string]bool{}
	for i, u := range c.Users {
		e := strings.ToLower(strings.TrimSpace(u.Email))
		if e == "" {
			return fmt.Errorf("users[%d]: missing email", i)
		}
		if emails[e] {
			return fmt.Errorf("users[%d]: duplicate email %q", i, u.Email)
		}
		emails[e] = true
	}
	keys := map[string]map[int]bool{}
	for i, course := range c.Courses {
		if strings.TrimSpace(course.Key) == "" {
			return fmt.Errorf("courses[%d]: missing key", i)
		}
		if _, dup := keys[course.Key]; dup {
			return fmt.Errorf("courses[%d]: duplicate key %q", i, course.Key)
		}
		orders := map[int]bool{}
		for j, l := range course.Lessons {
			if orders[l.Order] {
				return fmt.Errorf("courses[%d].lessons[%d]: order %d used twice", i, j, l.Order)
			}
			orders[l.Order] = true
		}
		keys[course.Key] = orders
	}
	for i, comp := range c.Completions {
		if !emails[strings.ToLower(strings.TrimSpace(comp.Email))] {
			return fmt.Errorf("completions[%d]: unknown user %q", i, comp.Email)
		}
		orders, ok := keys[comp.Course]
		if !ok {
			return fmt.Errorf("completions[%d]: unknown course %q", i, comp.Course)
		}
		if !orders[comp.Order] {
			return fmt.Errorf("completions[%d]: course %q has no lesson at order %d", i, comp.Course, comp.Order)
		}
	}
	return nil
}

func toJSON(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
