package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxTermsLength       = 5000
	MaxDeliverables      = 30
	MaxDeliverableLength = 500
	MaxTimelineDays      = 365
	MaxAttachments       = 10
	MaxAttachmentURL     = 2048
	MaxReasonLength      = 1000
	MaxPrice             = 100000000.0 // 100 миллионов
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateText проверяет обязательное текстовое поле с ограничением длины.
func ValidateText(fieldName, value string, max int) error {
	if err := ValidateNonEmpty(fieldName, value); err != nil {
		return err
	}
	return ValidateLength(fieldName, strings.TrimSpace(value), 0, max)
}

// ValidateDeliverables проверяет список результатов работы.
// Пустые элементы не отбрасываются молча, а считаются ошибкой.
func ValidateDeliverables(deliverables []string) error {
	if len(deliverables) == 0 {
		return fmt.Errorf("укажите хотя бы один результат работы")
	}
	if len(deliverables) > MaxDeliverables {
		return fmt.Errorf("количество результатов работы не может превышать %d", MaxDeliverables)
	}
	for i, d := range deliverables {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("результат работы #%d не может быть пустым", i+1)
		}
		if utf8.RuneCountInString(d) > MaxDeliverableLength {
			return fmt.Errorf("результат работы #%d длиннее %d символов", i+1, MaxDeliverableLength)
		}
	}
	return nil
}

// ValidateAttachmentURLs проверяет ссылки на материалы, подтверждающие выполнение.
func ValidateAttachmentURLs(urls []string) error {
	if len(urls) > MaxAttachments {
		return fmt.Errorf("количество вложений не может превышать %d", MaxAttachments)
	}
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if len(raw) > MaxAttachmentURL {
			return fmt.Errorf("ссылка на вложение слишком длинная")
		}

		// Проверка формата URL
		parsedURL, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("некорректный формат URL вложения")
		}

		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("ссылка на вложение должна начинаться с http:// или https://")
		}

		if parsedURL.Host == "" {
			return fmt.Errorf("ссылка на вложение должна содержать доменное имя")
		}
	}
	return nil
}
