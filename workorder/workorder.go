// Package workorder 把配方快照渲染成可打印的配肥工单。
// 工单是纯格式化：消费已经算好的快照，自己不做任何计算。
package workorder

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	qrcode "github.com/skip2/go-qrcode"

	"go-shuifeibao/engine"
	"go-shuifeibao/models"
)

// 二维码边长（像素），打印后扫码定位批次
const qrSize = 192

var topologyLabels = map[string]string{
	engine.TopologyDirect:        "直接入桶",
	engine.TopologyStockInjector: "母液+注肥器",
}

var dosingModeLabels = map[string]string{
	engine.DosingModeTotal:    "桶内总量",
	engine.DosingModePerLiter: "每升用量",
}

type nutrientRow struct {
	Symbol  string
	Display string
}

type pageData struct {
	Recipe        models.Recipe
	TopologyLabel string
	DosingLabel   string
	MacroRows     []nutrientRow
	MicroRows     []nutrientRow
	QRDataURI     template.URL
}

// Render 生成工单 HTML。二维码内容为批次号，内嵌为 data URI，
// 打印页面不依赖任何外部资源。
func Render(recipe models.Recipe) ([]byte, error) {
	png, err := qrcode.Encode(recipe.BatchNo, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %v", err)
	}
	qrURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	display := engine.DisplayPPM(recipe.PPM)
	data := pageData{
		Recipe:        recipe,
		TopologyLabel: labelOr(topologyLabels, recipe.Topology),
		DosingLabel:   labelOr(dosingModeLabels, recipe.DosingMode),
		QRDataURI:     template.URL(qrURI),
	}
	// 大量元素取整，微量元素两位小数
	for _, sym := range engine.MacroSymbols {
		data.MacroRows = append(data.MacroRows, nutrientRow{sym, fmt.Sprintf("%.0f", display[sym])})
	}
	for _, sym := range engine.MicroSymbols {
		data.MicroRows = append(data.MicroRows, nutrientRow{sym, fmt.Sprintf("%.2f", display[sym])})
	}

	var buf bytes.Buffer
	if err := workOrderTpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render work order: %v", err)
	}
	return buf.Bytes(), nil
}

func labelOr(labels map[string]string, key string) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return key
}

var workOrderTpl = template.Must(template.New("workorder").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>配肥工单 {{.Recipe.BatchNo}}</title>
<style>
body { font-family: "Noto Sans SC", sans-serif; margin: 24px; color: #222; }
h1 { font-size: 20px; }
table { border-collapse: collapse; margin-bottom: 16px; }
th, td { border: 1px solid #999; padding: 4px 10px; font-size: 13px; }
th { background: #f0f0f0; }
.meta td { border: none; padding: 2px 10px 2px 0; }
.qr { float: right; }
@media print { .noprint { display: none; } }
</style>
</head>
<body>
<img class="qr" src="{{.QRDataURI}}" alt="{{.Recipe.BatchNo}}" width="96" height="96">
<h1>配肥工单 {{.Recipe.BatchNo}}</h1>
<table class="meta">
<tr><td>配方名称</td><td>{{.Recipe.Name}}</td></tr>
<tr><td>施肥方式</td><td>{{.TopologyLabel}}</td></tr>
<tr><td>配比方式</td><td>{{.DosingLabel}}</td></tr>
<tr><td>桶体积</td><td>{{.Recipe.VesselVolumeL}} L</td></tr>
{{if .Recipe.InjectorRatio}}<tr><td>稀释比</td><td>1:{{.Recipe.InjectorRatio}}</td></tr>{{end}}
<tr><td>EC 估算</td><td>{{printf "%.2f" .Recipe.ECEstimate}} mS/cm</td></tr>
<tr><td>总成本</td><td>{{printf "%.2f" .Recipe.CostPerBatch}}</td></tr>
<tr><td>创建时间</td><td>{{.Recipe.CreatedAt}}</td></tr>
{{if .Recipe.Notes}}<tr><td>备注</td><td>{{.Recipe.Notes}}</td></tr>{{end}}
</table>

<h2>投肥明细</h2>
<table>
<tr><th>肥料</th><th>消耗 (g)</th><th>出水浓度 (g/L)</th><th>成本</th></tr>
{{range .Recipe.Lines}}
<tr>
<td>{{.FertilizerName}}</td>
<td>{{printf "%.1f" .TotalGrams}}</td>
<td>{{printf "%.4f" .DeliveredGPerL}}</td>
<td>{{printf "%.2f" .Cost}}</td>
</tr>
{{end}}
</table>

<h2>养分浓度 (ppm)</h2>
<table>
<tr>{{range .MacroRows}}<th>{{.Symbol}}</th>{{end}}</tr>
<tr>{{range .MacroRows}}<td>{{.Display}}</td>{{end}}</tr>
</table>
<table>
<tr>{{range .MicroRows}}<th>{{.Symbol}}</th>{{end}}</tr>
<tr>{{range .MicroRows}}<td>{{.Display}}</td>{{end}}</tr>
</table>

<button class="noprint" onclick="window.print()">打印</button>
</body>
</html>
`))
