// Package models содержит доменные сущности платформы курсов и формы
// запросов и ответов HTTP API.
package models

import (
	"github.com/shopspring/decimal"
)

// Money денежная сумма с двумя знаками после запятой.
// В JSON сериализуется строкой вида "10000.00".
type Money struct {
	decimal.Decimal
}

// NewMoney создаёт сумму из строки, например "10000.00".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d.Round(2)}, nil
}

// maxMoney граница, которую не вмещает столбец NUMERIC(10,2).
var maxMoney = decimal.New(1, 8)

// MaxMoneyText максимальная сумма в текстовом виде, для сообщений об ошибках.
const MaxMoneyText = "99999999.99"

// MustMoney как NewMoney, но паникует на некорректной строке.
func MustMoney(s string) Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// UnmarshalJSON принимает строку или число и округляет до двух знаков.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Rounded возвращает сумму, округлённую до двух знаков, как её сохранит база.
func (m Money) Rounded() Money {
	return Money{m.Round(2)}
}

// Overflows сообщает, что сумма не помещается в NUMERIC(10,2).
func (m Money) Overflows() bool {
	return m.Round(2).Abs().GreaterThanOrEqual(maxMoney)
}

// MarshalJSON сериализует сумму строкой с двумя знаками.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.StringFixed(2) + `"`), nil
}

// MinorUnits переводит сумму в целое число минимальных единиц валюты (×100).
func (m Money) MinorUnits() int64 {
	return m.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
