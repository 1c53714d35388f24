// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rally

// Station is both a station list item and a station detail record. Detail
// responses carry the Returns list; list items carry OneWay.
type Station struct {
	ID      int    `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Address string `json:"address" yaml:"address"`
	OneWay  bool   `json:"one_way" yaml:"one_way"`
	Returns []int  `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// DateRange is one window in which a transfer can be booked. Only the date
// portion (first 10 characters) of each bound is meaningful.
type DateRange struct {
	StartDate string `json:"startDate" yaml:"startDate"`
	EndDate   string `json:"endDate" yaml:"endDate"`
}
