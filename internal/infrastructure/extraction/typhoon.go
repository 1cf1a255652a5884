// Package extraction pulls structured invoice fields out of OCR markdown
// using the Typhoon instruct model.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/keingkrai/process-tax-ocr/internal/domain/entity"
	"github.com/keingkrai/process-tax-ocr/internal/domain/enum"
)

const (
	defaultBaseURL = "https://api.opentyphoon.ai/v1"
	defaultModel   = "typhoon-v2-70b-instruct"
	maxAttempts    = 3
)

// Config holds the extraction client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Extractor converts OCR markdown into an InvoiceRecord.
type Extractor struct {
	api   *openai.Client
	model string
}

// NewExtractor creates an extraction client.
func NewExtractor(cfg Config) *Extractor {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.BaseURL
	return &Extractor{
		api:   openai.NewClientWithConfig(apiCfg),
		model: cfg.Model,
	}
}

// Extract sends the OCR markdown to the model and parses the JSON reply into
// an InvoiceRecord. The detected invoice type is pinned into the prompt and
// stamped onto the result regardless of what the model echoes back.
func (e *Extractor) Extract(ctx context.Context, markdown string, invoiceType enum.InvoiceType) (*entity.InvoiceRecord, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(markdown, invoiceType)},
		},
		Temperature: 0.5,
		MaxTokens:   1024,
	}

	var raw string
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := e.api.CreateChatCompletion(ctx, req)
		if err == nil && len(resp.Choices) > 0 {
			raw = resp.Choices[0].Message.Content
			break
		}
		if err == nil {
			err = fmt.Errorf("empty response from model")
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	if raw == "" {
		return nil, fmt.Errorf("extraction: completion failed after %d attempts: %w", maxAttempts, lastErr)
	}

	record, err := ParseModelOutput(raw)
	if err != nil {
		return nil, fmt.Errorf("extraction: parse model output: %w", err)
	}
	record.InvoiceType = invoiceType
	return record, nil
}

// thousandsInValue matches a comma-grouped number in a JSON value position.
// The model sometimes emits unquoted amounts like 20,908.46 which break the
// parser; the commas are stripped before decoding.
var thousandsInValue = regexp.MustCompile(`(:\s*)(\d{1,3}(?:,\d{3})+(?:\.\d+)?)(\s*[,\n}\]])`)

// ParseModelOutput repairs and decodes the model's JSON reply. Repair is two
// stage: strip thousands separators inside numeric values, then fall back to
// the outermost brace-delimited substring when the reply has prose around the
// JSON.
func ParseModelOutput(raw string) (*entity.InvoiceRecord, error) {
	fixed := thousandsInValue.ReplaceAllStringFunc(raw, func(m string) string {
		sub := thousandsInValue.FindStringSubmatch(m)
		return sub[1] + strings.ReplaceAll(sub[2], ",", "") + sub[3]
	})

	var record entity.InvoiceRecord
	if err := json.Unmarshal([]byte(fixed), &record); err == nil {
		return &record, nil
	}

	start := strings.Index(fixed, "{")
	end := strings.LastIndex(fixed, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in model output")
	}
	if err := json.Unmarshal([]byte(fixed[start:end+1]), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func buildPrompt(markdown string, invoiceType enum.InvoiceType) string {
	return fmt.Sprintf(`ต่อไปนี้คือข้อมูลจากใบเสร็จหรือใบกำกับภาษีที่ผ่านการทำ OCR แล้ว:

%s

กรุณาวิเคราะห์ข้อความทั้งหมดและดึงข้อมูลสำคัญต่อไปนี้ออกมาในรูปแบบ JSON ห้ามมีการเปลี่ยนแปลงข้อมูลหรือเพิ่มข้อมูลใด ๆ นอกเหนือจากที่ระบุไว้ด้านล่าง:

- "title": เป็นชื่อหัวเรื่องของเอกสาร
- "invoice_type": %s ,หัวข้อนี้ไม่ต้องเปลี่ยนแปลง ใช้ตามค่าตัวแปร
- "seller": ชื่อผู้ขาย (ชื่อบริษัทหรือบุคคล)
- "seller_address": ที่อยู่ผู้ขาย
- "buyer": ชื่อผู้ซื้อ (ถ้ามี)
- "buyer_address": ที่อยู่ผู้ซื้อ
- "tax_id": เลขประจำตัวผู้เสียภาษี หรือ เลขทะเบียนบริษัท (ต้องมีครบ 13 หลัก เท่านั้น)
- "document_date": วันที่ออกใบเสร็จ (แยกเป็น day month year ใช้ปี พ.ศ. เท่านั้น)
- "invoice_no": เลขที่ใบเสร็จ / เลขที่ใบกำกับ (ถ้ามี)
- "items": รายการสินค้า (name, quantity, unit_price, total_price ต่อรายการ)
- "subtotal": ยอดรวมก่อนภาษี
- "vat": ภาษีมูลค่าเพิ่ม (ถ้ามี)
- "total": ยอดรวมสุทธิทั้งหมด
- "amount_text": จำนวนเงินตัวอักษร (เช่น "=ห้าร้อยบาทถ้วน=")
- "warranty_period": ระยะเวลารับประกัน เอาแค่ตัวเลข (ถ้ามี)

หากข้อมูลบางส่วนไม่มี ให้ใส่เป็น null หรือเว้นว่างได้ เช่น "buyer": null
หัวข้อใน JSON จะเป็นตามที่กำหนดไว้ เท่านั้น

ตอบกลับเป็น JSON เท่านั้น โดยไม่มีคำอธิบายอื่นเพิ่มเติม`, markdown, invoiceType)
}
