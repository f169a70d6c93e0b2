package domain

import "time"

// CinemaBirthday первая публичная демонстрация фильма; более ранние даты выхода не принимаются.
var CinemaBirthday = NewDate(1895, time.December, 28)

// Film основная доменная модель фильма.
// Genres и Directors всегда отдаются массивами, отсортированными по id.
type Film struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name" validate:"notblank"`
	Description string     `json:"description" validate:"max=200"`
	ReleaseDate Date       `json:"releaseDate" validate:"required,releasedate"`
	Duration    int        `json:"duration" validate:"gt=0"`
	Mpa         *Mpa       `json:"mpa" validate:"required"`
	Genres      []Genre    `json:"genres"`
	Directors   []Director `json:"directors"`
}

// GenreIDs возвращает id жанров без повторов, в порядке первого появления.
func (f *Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	seen := make(map[int64]struct{}, len(f.Genres))
	for _, g := range f.Genres {
		if _, ok := seen[g.ID]; ok {
			continue
		}
		seen[g.ID] = struct{}{}
		ids = append(ids, g.ID)
	}
	return ids
}

// DirectorIDs возвращает id режиссеров без повторов.
func (f *Film) DirectorIDs() []int64 {
	ids := make([]int64, 0, len(f.Directors))
	seen := make(map[int64]struct{}, len(f.Directors))
	for _, d := range f.Directors {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		ids = append(ids, d.ID)
	}
	return ids
}
