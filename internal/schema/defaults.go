package schema

import (
	"time"

	"github.com/joseph-ayodele/pdf-extractor/constants"
	"github.com/joseph-ayodele/pdf-extractor/internal/entity"
)

const (
	ResumeID  = "resume"
	InvoiceID = "invoice"
)

// builtinsCreatedAt pins built-in timestamps so listings stay stable across restarts.
var builtinsCreatedAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Defaults returns fresh copies of the built-in schemas.
func Defaults() []entity.ParserConfig {
	return []entity.ParserConfig{
		{
			ID:        ResumeID,
			Name:      "默认配置-基础简历解析",
			CreatedAt: builtinsCreatedAt,
			IsDefault: true,
			Fields: []entity.Field{
				{ID: "1", Name: "姓名", Key: "name", Type: constants.FieldText, Description: "候选人全名", Required: true},
				{ID: "2", Name: "教育经历", Key: "education", Type: constants.FieldTextList, Description: "教育背景列表", Required: true},
				{ID: "3", Name: "工作经历", Key: "companies", Type: constants.FieldTextList, Description: "工作过的公司列表", Required: true},
			},
		},
		{
			ID:        InvoiceID,
			Name:      "默认配置-基础发票解析",
			CreatedAt: builtinsCreatedAt,
			IsDefault: true,
			Fields: []entity.Field{
				{ID: "1", Name: "发票代码", Key: "invoiceCode", Type: constants.FieldText, Description: "发票唯一代码", Required: true},
				{ID: "2", Name: "发票号码", Key: "invoiceNumber", Type: constants.FieldText, Description: "发票编号", Required: true},
				{ID: "3", Name: "开票日期", Key: "date", Type: constants.FieldDate, Description: "发票开具日期", Required: true},
				{ID: "4", Name: "金额", Key: "amount", Type: constants.FieldNumber, Description: "发票金额", Required: true},
				{ID: "5", Name: "销售方", Key: "seller", Type: constants.FieldText, Description: "销售方名称", Required: true},
				{ID: "6", Name: "购买方", Key: "buyer", Type: constants.FieldText, Description: "购买方名称", Required: true},
				{ID: "7", Name: "商品列表", Key: "items", Type: constants.FieldTextList, Description: "发票商品或服务项目列表", Required: true},
			},
		},
	}
}
