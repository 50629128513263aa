package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/magabrotheeeer/course-platform/internal/models"
)

// CourseCache кэширует записи курсов по ключу course:<id>.
type CourseCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewCourseCache создаёт кэш курсов со временем жизни записи ttl.
func NewCourseCache(c *Cache, ttl time.Duration) *CourseCache {
	return &CourseCache{cache: c, ttl: ttl}
}

func courseKey(id int64) string {
	return "course:" + strconv.FormatInt(id, 10)
}

// GetCourse возвращает курс из кэша; false означает промах.
func (c *CourseCache) GetCourse(ctx context.Context, id int64) (*models.Course, bool, error) {
	var course models.Course
	found, err := c.cache.Get(ctx, courseKey(id), &course)
	if err != nil || !found {
		return nil, false, err
	}
	return &course, true, nil
}

// SetCourse кладёт курс в кэш.
func (c *CourseCache) SetCourse(ctx context.Context, course *models.Course) error {
	return c.cache.Set(ctx, courseKey(course.ID), course, c.ttl)
}

// InvalidateCourse удаляет курс из кэша.
func (c *CourseCache) InvalidateCourse(ctx context.Context, id int64) error {
	return c.cache.Invalidate(ctx, courseKey(id))
}
