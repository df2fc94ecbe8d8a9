package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	kanerr "github.com/pasjesplank/plank/internal/errors"
	"github.com/pasjesplank/plank/internal/gesture"
	"github.com/pasjesplank/plank/internal/logger"
	"github.com/pasjesplank/plank/internal/model"
)

// ClientMessage is a JSON message received from a client.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type filterData struct {
	Filter string `json:"filter"`
}

type colorData struct {
	Color string `json:"color"`
}

type categoryData struct {
	Category model.Category `json:"category"`
}

type submitAddData struct {
	StoreName     string `json:"storeName"`
	BarcodeNumber string `json:"barcodeNumber"`
}

type cardData struct {
	ID string `json:"id"`
}

type deleteData struct {
	Confirmed bool `json:"confirmed"`
}

type scanDetectedData struct {
	Code string `json:"code"`
}

type scanFailedData struct {
	Error string `json:"error"`
}

type pressData struct {
	CardID string        `json:"cardId"`
	Origin gesture.Rect  `json:"origin"`
	At     gesture.Point `json:"at"`
}

type pointerData struct {
	At gesture.Point `json:"at"`
}

// handleMessage decodes one client message. Scanner output goes straight to
// the scanner collaborator, which re-enters the session itself; everything
// else is queued on the session loop.
func (c *WebSocketClient) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Get().Debugw("ignoring malformed client message", "error", err)
		return
	}

	switch msg.Type {
	case "scan_detected":
		var d scanDetectedData
		if decode(msg, &d) {
			c.scanner.detected(d.Code)
		}
		return
	case "scan_failed":
		var d scanFailedData
		decode(msg, &d)
		if d.Error == "" {
			d.Error = "camera unavailable"
		}
		c.scanner.failed(errors.New(d.Error))
		return
	}

	c.loop.Post(func() {
		if err := c.dispatch(msg); err != nil {
			// Invalid input is refused silently; the UI simply does not change.
			logger.Get().Debugw("client message refused", "type", msg.Type, "error", err)
		}
	})
}

// dispatch applies a message to the session. It runs on the session loop.
func (c *WebSocketClient) dispatch(msg ClientMessage) error {
	s := c.session

	switch msg.Type {
	case "filter":
		var d filterData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.SelectFilter(d.Filter)

	case "open_add":
		s.OpenAdd()
	case "close_add":
		s.CloseAdd()
	case "select_color":
		var d colorData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.SelectColor(d.Color)
	case "select_category":
		var d categoryData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.SelectCategory(d.Category)
	case "submit_add":
		var d submitAddData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.SubmitAdd(d.StoreName, d.BarcodeNumber)

	case "open_detail":
		var d cardData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.OpenDetail(d.ID)
	case "close_detail":
		s.CloseDetail()
	case "change_color":
		var d colorData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.ChangeColor(d.Color)
	case "delete":
		var d deleteData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.Delete(d.Confirmed)

	case "open_scanner":
		s.OpenScanner()
	case "close_scanner":
		s.CloseScanner()

	case "targets":
		var targets []gesture.Target
		if !decode(msg, &targets) {
			return errBadData(msg.Type)
		}
		c.view.targets = targets
	case "press":
		var d pressData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.Press(d.CardID, d.Origin, d.At)
	case "move":
		var d pointerData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.Move(d.At)
	case "release":
		var d pointerData
		if !decode(msg, &d) {
			return errBadData(msg.Type)
		}
		return s.Release(d.At)

	default:
		return kanerr.InvalidField("type", fmt.Sprintf("unknown message type %q", msg.Type))
	}
	return nil
}

func decode(msg ClientMessage, target any) bool {
	data := bytes.TrimSpace(msg.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return false
	}
	return json.Unmarshal(msg.Data, target) == nil
}

func errBadData(msgType string) error {
	return kanerr.InvalidField("data", "malformed "+msgType+" payload")
}
