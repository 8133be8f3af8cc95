package llm

import (
	"fmt"

	"github.com/materialqc/specsheet/internal/spec"
)

// The rule block below is domain knowledge hand-tuned against supplier spec
// sheets (unit conversion, sign arithmetic, synonym tables, polarizer side
// selection). Treat it as data: changes need domain review, not refactoring.

const cfSideLine = `所有检验项目提取CF侧（上偏或者上POL）或者"雾度"有值的那一个型号`
const tftSideLine = `所有检验项目提取TFT侧（下偏或者下POL）或者"雾度"没有值的那一个型号`

// sampleFill is the reference output shape embedded in every prompt.
var sampleFill = []spec.Item{
	{Name: "黏度", Type: spec.TypeQuantitative, Upper: "2.94", Lower: "2.46", Unit: "mPa·S"},
	{Name: "固含量", Type: spec.TypeQuantitative, Upper: "14", Lower: "13.4", Unit: "%"},
	{Name: "膜厚", Type: spec.TypeQuantitative, Upper: "2.93", Lower: "2.85", Unit: "%"},
	{Name: "线幅", Type: spec.TypeQuantitative, Upper: "66.37", Lower: "62.37", Unit: "um"},
	{Name: "白点", Type: spec.TypeQuantitative, Upper: "3", Lower: "0.0", Unit: "-"},
	{Name: "对比", Type: spec.TypeQuantitative, Upper: spec.Infinity, Lower: "6842.0", Unit: "-"},
	{Name: "固含量批配差", Type: spec.TypeQuantitative, Upper: "0.12", Lower: "0.0", Unit: "%"},
	{Name: "色度x", Type: spec.TypeQuantitative, Upper: "0.1425", Lower: "0.1395", Unit: "-"},
	{Name: "色度y", Type: spec.TypeQuantitative, Upper: "0.091", Lower: "0.087", Unit: "-"},
	{Name: "色度Y", Type: spec.TypeQuantitative, Upper: "10.85", Lower: "9.95", Unit: "-"},
	{Name: "Residual thickness Ratio", Type: spec.TypeQuantitative, Upper: "85.6", Lower: "81.6", Unit: "%"},
	{Name: "来料运输温度确认", Type: spec.TypeQualitative, Upper: "15", Lower: "0.0", Unit: "℃"},
	{Name: "现象时间", Type: spec.TypeQuantitative, Upper: "17", Lower: "9.0", Unit: "sec"},
	{Name: "外观标识确认", Type: spec.TypeQualitative, Upper: "0", Lower: "0.0", Unit: "-"},
	{Name: "外观标签确认", Type: spec.TypeQualitative, Upper: "0", Lower: "0.0", Unit: "-"},
	{Name: "外观确认", Type: spec.TypeQualitative, Upper: "0", Lower: "0.0", Unit: "-"},
}

// BuildPrompt assembles the full extraction prompt: compacted markdown, the
// target checklist, the rule block, and a sample output list.
func BuildPrompt(req ExtractRequest) (string, error) {
	checklistJSON, err := spec.MarshalList(req.Checklist)
	if err != nil {
		return "", fmt.Errorf("marshal checklist: %w", err)
	}
	sampleJSON, err := spec.MarshalList(sampleFill)
	if err != nil {
		return "", fmt.Errorf("marshal sample: %w", err)
	}

	sideLine := tftSideLine
	if req.CFSide {
		sideLine = cfSideLine
	}

	return fmt.Sprintf(promptTemplate,
		string(checklistJSON),
		req.Markdown,
		sideLine,
		string(checklistJSON),
		req.FileName,
		string(sampleJSON),
	), nil
}

const promptTemplate = `
#背景#
-你是一个屏幕制造商的材料规格表维护助手,能从markdown文件中提取检验项目的值,对值进行简单计算替换到材料规格表的上下限中,
从markdown中找到材料规格表中的检验项目的上下限值。

下面为材料规格表：
======
%s
======

下面为材料规格书（markdown文件）文件内容:
======
%s
======

#请严格按以下步骤顺序执行#
1.先整体分析markdown中是否提到偏光片或者偏光板,若没提到则跳过第2步，若存在这两个字段，则从第2步开始执行,否则从第3步执行
2.%s,并且遵守规则16下的7条规则
3.从markdown中匹配字段,匹配时优先匹配与材料规格表中检验项目字段名称完全一致的字段,当未匹配到时,匹配名称不同但含义相同的字段,例如water,水,h2o都属于一个含义,例如particle count和颗粒是一个含义,例如固形分和固含量是一个含义，例如整体厚度和总厚度是一个含义，例如有效厚度和有效层是一个含义，例如RO和Δnd是一个含义。
4.从markdown提取与字段匹配的值。
5.依据符号计算该字段的上下限值,例如,当提取为1.17±0.03,计算1.17-0.03=1.14,1.17+0.03=1.20,因此上限为1.20,下限为1.14;当提取为890+2-4,表示上限为890+2=892,下限为890-4=886,因此上限为892,下限为886;在进行加减法计算时,请进行严格的加减法运算,得到的数值请严格按照得到的值进行输出。
6.检查单位换算，当提取的单位和材料规格表中不一致时,上下限的值换算为和材料规格表中单位一致,例如:1000g换算为1kg,1000换算为1。
7.检查每一检验项目的上下限值,是否遵守规则,特别是长宽,长一定比宽要长,提取后需要对比两个值大小,不符合需要两个交换。
8.逐一检查响应的结果列表中是否存在相同的检验项目，若存在则保留一个即可，要注意检查重复项目时区分大小写，例如色度Y和色度y是不同的检验项目、Particle 0.5-1.0um和Particle≥1.0um也是不同检验项目
9.检查结果中的检验项目数量与名称，要求与%s严格一致，项目定性类型的检验项目必须完整的出现在响应结果中，如有遗漏必须添加上

#请严格按以下规则执行#
--规则1：材料规格表中的检验项目即为需在Markdown中匹配的字段，必须严格按原名称进行一对一匹配，不得增加和减少和修改检验项目。，匹配时只匹配检验项目名称，不考虑项目代码。
--规则2:使用新计算的上下限值替换材料规格表中原来的值,并且不能带有符号,不能确定上下限值时,填充原来的值。
--规则3:当检验项目的类型为定性时,上下限值保持材料规格表中原来的值。
--规则4:检验项目中既存在长又存在宽,需要智能识别长和宽,识别时需注意,长的上限大于或等于宽的上限,长的下限大于或等于宽的下限,长与宽的上下限需要结合尺寸精度,不能存在宽大于长的情况,重要。
--规则5:球标和球标尺寸都是球标尺寸,可从初期全尺寸报告和检查报告范本和尺寸标表中找到,例如,尺寸表中#01代表球标1尺寸,#02代表球标2尺寸,#03代表球标3尺寸,注意区分球标的左右（LRUD）,例如#03R代表球标3右边尺寸，#03L代表球标3左边尺寸,#03U代表球标3上边的尺寸，#03D代表球标3下边尺寸。
--规则6:<td><x</td>或者<td>&lt;x</td>代表<x,<td>≤x</td>或者<td>&le;x</td>或者<td>&lt;=x</td>代表≤x,<td>≥x</td>或者<td>&ge;x</td>或者<td>&gt;=x</td>代表≥x,<td>>x</td>或者<td>&gt;x</td>代表>x。
--规则7:在材料规格表中的检验项目中:Tape良率,封装良率,F/T良率,外观良率,出货良率 在markdown中未找到完全相对应内容则按照上限：100，下限：0进行处理。
--规则8:当检验项目为<保护膜表面阻抗>时在markdown中没有保护膜表面阻抗且存在表面电阻值那么表面电阻值就指的是保护膜表面阻抗。
--规则9:检查项目为R0时,也有另外一种名字为Δnd。
--规则10:
    (1)**表面静电阻抗在规则书中找到具体的值按照实际值处理,没有找到对应值则通常按照表面静电阻抗的下限为10的6次方数量级,上限为10的9次方数量级。如果能识别到对应内容 原始的markdown内容可能没有识别到次方,对应的值一定是10的多少次方,需要你帮我修正数据，
        示例: 保护膜表面阻抗 1.0X106~1X109 → 上限1000000000，下限1000000，
        示例：保护膜表面阻抗 1.0X10^6~9.9X10^10 → 上限99000000000，下限1000000。
        示例：阻抗 1012代表10的12次方
        示例：阻抗 10X10^n代表1.0X10^n+1
    (2)**表面静电阻抗后面有数字且在markdown中没有具体对应的值那它所对应的值需先看是否存在不带数字的检验项目是否存在值，如果存在则上限与下限就取对应的值，如果不存在就按规则10的(1)逻辑取值，
        示例：保护膜表面阻抗2在markdown中没有对应内容，上限与下限就取保护膜表面阻抗的上限与下限。
--规则11:在材料规格表的检验项目中，
    (1)检验项目的单位为 %% 时：
        若markdown中没有具体的上限值,则上限最大为：100。
        若markdown中的上限值为无穷大符号(∞),则上限最大为：100,很重要！。
            示例: 平行透过率 ≥ 34 则上限100而非∞
    (2)检验项目的单位不为 %% 时：
        若条件为 ≤ X，则上限为X，下限为0。
            示例：厚度 ≤ 0.5 mm → 上限0.5，下限0。
        若条件为 ≥ X 或 > X，则下限为X，上限为∞。
            示例：拉伸强度 ≥ 50 MPa → 下限50，上限∞。
--规则12:部分特殊处理:
    (1):材料规格表的检验项目中Total pitch确认 在markdown中的同义词为OL total pitch/output side
    (2):正负翘为一个检验项目，负翘的值一般为负值，示例：正翘H≤15mm，负翘H≤5mm，则对应上限为：上限：15，下限：-5
--规则13:markdown内容中的数据可能为表格数据,需要根据数据规律特征判断,其中需要特别注意的是如果是表格数据那表格中的指标内容可能带有单位
    示例: 氟离子(F) <=50ppm  颗粒(≥0.5μm)  <=50个/ML 这种情况下 氟离子(F) <=50ppm 是一组数据,颗粒(≥0.5μm)  <=50个/ML 是一组数据,其中 颗粒(≥0.5μm) 是项目名称不要把(≥0.5μm)识别成立名称对应的值
--规则14：注意负数计算，如：-5+0.1为-4.9，-3-0.4为-3.4
--规则15：当markdown中材料有多个型号不知道选取哪个型号的上下限值时，依据markdown文件名来选择型号：markdown文件名:%s
--规则16: 当markdown内容中含有“偏光板”或者“偏光片”时，表明该材料为偏光材料：需要严格按下面7条规则处理：
    (1):总厚度和有效厚度如果在markdown中有匹配的关键字段，则直接提取上下限值，
    (2):上偏（CF侧）有效厚度计算公式为：有效厚度为PMMA层+PVA层+补偿膜层+PSA层的和（或者 AG film(ASG7)层+ Polarizer层+PK3 film补偿膜层+胶层的和）,公差为4层公差的和，并非总厚度的公差25
    (3):下偏（TFT侧）有效厚度计算公式为：有效厚度为PMMA层+PVA层+补偿膜层+PSA层的和（或者  PET film层+ Polarizer层+PK3 film补偿膜层+胶层的和），公差为4层公差的和，并非总厚度的公差25
    (4):直角度在一般为90±n,在90度左右
    (5):Lx代表长，Ly代表宽，当从markdown中找不到长和宽的公差时，长和宽的公差默认为±0.2
    (6)偏光片或者偏光板中保护膜表面阻抗：1*10^6~1*10^9.9可能对应材料规格表里面的多个保护膜表面阻抗，需要转化为上限7943282347，下限1000000。
    (7)偏光片或者偏光板中"Adhesive"的另一种名称为"对基板剥离力","protective flim"也称为“保护膜剥离力”,"Release flime"也称为"离型膜剥离力"

#在处理时请把以上所有内容考虑完整#
#响应为列表格式#
严格响应为如下格式,返回只包含检验代码,检验项目,类型,上限,下限,单位列名,不要返回任何其他内容
参考如下:
%s
`
