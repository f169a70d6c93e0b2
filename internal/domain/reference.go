package domain

// Genre жанр фильма (справочник).
type Genre struct {
	ID   int64  `json:"id" db:"genre_id"`
	Name string `json:"name" db:"name"`
}

// Mpa возрастной рейтинг Motion Picture Association (справочник).
type Mpa struct {
	ID   int64  `json:"id" db:"mpa_id" validate:"gt=0"`
	Name string `json:"name" db:"name"`
}

// Director режиссер.
type Director struct {
	ID   int64  `json:"id" db:"director_id"`
	Name string `json:"name" db:"name" validate:"notblank"`
}
