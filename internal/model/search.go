package model

import (
	"strconv"
	"strings"
	"unicode"
)

// Entity — строка, которую можно выбрать по id и показать пользователю
type Entity interface {
	Key() int64
	String() string
}

// SearchCriteria описывает условия поиска: совпадение по id ИЛИ подстрока в текстовых полях
// ID == 0 ничего не находит, потому что id в таблицах начинаются с 1
type SearchCriteria struct {
	ID        int64
	Primary   string
	Secondary string
}

// ParseClientQuery делит ввод по первому пробельному символу на (имя, фамилию)
// одно слово попадает в оба поля, чтобы искать и по имени, и по фамилии
func ParseClientQuery(input string) SearchCriteria {
	input = strings.TrimSpace(input)

	primary, secondary := input, input
	if i := strings.IndexFunc(input, unicode.IsSpace); i >= 0 {
		primary = input[:i]
		secondary = strings.TrimSpace(input[i+1:])
	}

	return SearchCriteria{
		ID:        parseID(primary),
		Primary:   primary,
		Secondary: secondary,
	}
}

// ParseProductQuery использует весь ввод как один поисковый термин
func ParseProductQuery(input string) SearchCriteria {
	input = strings.TrimSpace(input)
	return SearchCriteria{
		ID:        parseID(input),
		Primary:   input,
		Secondary: input,
	}
}

func parseID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}
