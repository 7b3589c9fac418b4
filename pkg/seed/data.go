package seed

import "github.com/sxpeea/sxpeea/pkg/content"

type seedMenu struct {
	menu     content.Menu
	parent   string
	category string
}

type seedArticle struct {
	title    string
	category string
	top      bool
}

func siteCategories() []content.Category {
	return []content.Category{
		{Name: "行业新闻", Slug: "hangye-xinwen", Description: content.Ptr("电力工程行业最新动态")},
		{Name: "协会动态", Slug: "xiehui-dongtai", Description: content.Ptr("协会工作动态和活动报道")},
		{Name: "通知公告", Slug: "tongzhi-gonggao", Description: content.Ptr("协会通知公告")},
		{Name: "政策法规", Slug: "zhengce-fagui", Description: content.Ptr("相关政策法规文件")},
		{Name: "会员风采", Slug: "huiyuan-fengcai", Description: content.Ptr("会员企业展示")},
	}
}

// siteMenus lists parents before their children.
func siteMenus() []seedMenu {
	page := func(name, slug string, sort int, body string) content.Menu {
		m := content.Menu{Name: name, Slug: slug, Type: content.MenuTypePage, Sort: sort}
		if body != "" {
			m.PageContent = content.Ptr(body)
		}
		return m
	}
	category := func(name, slug string, sort int) content.Menu {
		return content.Menu{Name: name, Slug: slug, Type: content.MenuTypeCategory, Sort: sort}
	}

	return []seedMenu{
		{menu: page("首页", "home", 1, "")},
		{menu: page("协会概况", "about", 2, "")},
		{menu: page("新闻中心", "news", 3, "")},
		{menu: category("通知公告", "notice", 4), category: "tongzhi-gonggao"},
		{menu: page("会员服务", "member", 5, "")},
		{menu: category("政策法规", "policy", 6), category: "zhengce-fagui"},
		{menu: page("联系我们", "contact", 7, contactPage)},

		{menu: page("协会简介", "about-intro", 1, introPage), parent: "about"},
		{menu: page("协会章程", "about-charter", 2, charterPage), parent: "about"},
		{menu: page("组织机构", "about-org", 3, orgPage), parent: "about"},
		{menu: page("领导介绍", "about-leaders", 4, leadersPage), parent: "about"},
		{menu: category("行业新闻", "news-industry", 1), parent: "news", category: "hangye-xinwen"},
		{menu: category("协会动态", "news-association", 2), parent: "news", category: "xiehui-dongtai"},
		{menu: page("入会指南", "member-guide", 1, memberGuidePage), parent: "member"},
		{menu: category("会员风采", "member-showcase", 2), parent: "member", category: "huiyuan-fengcai"},
	}
}

func siteArticles() []seedArticle {
	return []seedArticle{
		{title: "山西省电力工程行业2024年度工作会议顺利召开", category: "hangye-xinwen", top: true},
		{title: "国家能源局发布新版电力工程施工规范", category: "hangye-xinwen"},
		{title: "山西省加快推进新能源项目建设", category: "hangye-xinwen"},
		{title: "协会组织会员企业赴外省考察学习", category: "xiehui-dongtai"},
		{title: "协会成功举办2024年度技术培训班", category: "xiehui-dongtai"},
		{title: "关于召开2024年度会员大会的通知", category: "tongzhi-gonggao", top: true},
		{title: "关于缴纳2024年度会费的通知", category: "tongzhi-gonggao"},
		{title: "关于开展安全生产专项检查的通知", category: "tongzhi-gonggao"},
		{title: "《电力建设工程施工安全管理办法》解读", category: "zhengce-fagui"},
		{title: "山西省电力工程企业资质管理办法", category: "zhengce-fagui"},
	}
}

func siteBanners() []content.Banner {
	return []content.Banner{
		{Title: content.Ptr("山西省电力工程企业协会"), Image: "/uploads/banner1.jpg", Link: content.Ptr("/"), Sort: 1, IsActive: true},
		{Title: content.Ptr("服务会员 服务行业 服务社会"), Image: "/uploads/banner2.jpg", Link: content.Ptr("/page/about-intro"), Sort: 2, IsActive: true},
		{Title: content.Ptr("2024年度会员大会"), Image: "/uploads/banner3.jpg", Link: content.Ptr("/article/6"), Sort: 3, IsActive: true},
	}
}

func siteSettings() []content.Setting {
	return []content.Setting{
		{Key: "site_name", Value: content.Ptr("山西省电力工程企业协会")},
		{Key: "site_icp", Value: content.Ptr("晋ICP备XXXXXXXX号")},
		{Key: "site_phone", Value: content.Ptr("0351-XXXXXXXX")},
		{Key: "site_address", Value: content.Ptr("山西省太原市小店区长风街XXX号")},
		{Key: "site_email", Value: content.Ptr("contact@sxpeea.cn")},
		{Key: "site_copyright", Value: content.Ptr("© 2024 山西省电力工程企业协会 版权所有")},
	}
}

// articleBody is formatted with the article title.
const articleBody = `<div class="article-content">
    <p>这是《%s》的正文内容。</p>
    <p>文章详细介绍了相关事项的背景、目的、主要内容和具体要求。各会员单位应认真学习领会，切实贯彻执行。</p>
    <h3>一、背景介绍</h3>
    <p>为进一步规范行业管理，提高服务质量，根据上级有关要求，结合我省实际情况，特制定本办法/通知。</p>
    <h3>二、主要内容</h3>
    <p>（一）加强组织领导，明确责任分工</p>
    <p>（二）完善工作机制，提高工作效率</p>
    <p>（三）强化监督检查，确保工作落实</p>
    <h3>三、工作要求</h3>
    <p>各会员单位要高度重视，认真组织学习，确保相关工作顺利开展。</p>
</div>`

const contactPage = `<div class="contact-page">
    <h2>联系方式</h2>
    <p><strong>协会名称：</strong>山西省电力工程企业协会</p>
    <p><strong>办公地址：</strong>山西省太原市小店区长风街XXX号</p>
    <p><strong>联系电话：</strong>0351-XXXXXXXX</p>
    <p><strong>传真号码：</strong>0351-XXXXXXXX</p>
    <p><strong>电子邮箱：</strong>contact@sxpeea.cn</p>
    <p><strong>邮政编码：</strong>030000</p>
    <h2>交通指南</h2>
    <p>地铁：乘坐地铁X号线至XX站，从X出口步行约500米即可到达</p>
    <p>公交：乘坐XXX路、XXX路公交车至XX站下车</p>
</div>`

const introPage = `<div class="about-intro">
    <h2>协会简介</h2>
    <p>山西省电力工程企业协会成立于XXXX年，是由山西省内从事电力工程建设、设计、施工、监理、咨询等业务的企业自愿组成的全省性、行业性、非营利性社会组织。</p>
    <p>协会宗旨：遵守宪法、法律、法规和国家政策，遵守社会道德风尚。坚持为会员服务、为行业服务、为政府服务的原则，发挥桥梁和纽带作用，维护会员的合法权益，促进行业健康发展。</p>
    <h3>主要职能</h3>
    <ul>
        <li>组织开展行业调查研究，向政府有关部门反映行业和会员的意见、建议和要求</li>
        <li>参与制定行业发展规划、产业政策、行业标准等</li>
        <li>组织开展行业培训、技术交流和咨询服务</li>
        <li>组织开展行业自律，规范企业行为，维护市场秩序</li>
        <li>组织开展评优评先，表彰先进，推广先进经验</li>
    </ul>
</div>`

const charterPage = `<div class="charter">
    <h2>山西省电力工程企业协会章程</h2>
    <h3>第一章 总则</h3>
    <p><strong>第一条</strong> 本协会名称为山西省电力工程企业协会（以下简称"本协会"）。</p>
    <p><strong>第二条</strong> 本协会是由山西省内电力工程企业自愿组成的全省性、行业性、非营利性社会组织。</p>
    <p><strong>第三条</strong> 本协会的宗旨：遵守宪法、法律、法规和国家政策，遵守社会道德风尚。维护会员合法权益，促进行业健康发展。</p>
    <h3>第二章 业务范围</h3>
    <p><strong>第四条</strong> 本协会的业务范围包括：行业调研、政策建议、技术交流、培训教育、信息服务、行业自律等。</p>
</div>`

const orgPage = `<div class="org-structure">
    <h2>组织机构</h2>
    <h3>领导班子</h3>
    <p><strong>会长：</strong>XXX</p>
    <p><strong>副会长：</strong>XXX、XXX、XXX</p>
    <p><strong>秘书长：</strong>XXX</p>
    <h3>内设机构</h3>
    <ul>
        <li><strong>秘书处</strong> - 负责协会日常工作</li>
        <li><strong>会员服务部</strong> - 负责会员发展与服务</li>
        <li><strong>培训部</strong> - 负责行业培训工作</li>
        <li><strong>信息部</strong> - 负责信息收集与发布</li>
    </ul>
</div>`

const leadersPage = `<div class="leaders">
    <h2>领导介绍</h2>
    <div class="leader-item">
        <h3>XXX - 会长</h3>
        <p>简介：资深电力工程专家，从事电力工程行业30余年，具有丰富的行业管理经验。</p>
    </div>
</div>`

const memberGuidePage = `<div class="member-guide">
    <h2>入会指南</h2>
    <h3>入会条件</h3>
    <ol>
        <li>在山西省境内依法登记注册的电力工程企业</li>
        <li>具有独立法人资格</li>
        <li>承认本协会章程，愿意履行会员义务</li>
        <li>具有良好的商业信誉和经营业绩</li>
    </ol>
    <h3>入会程序</h3>
    <ol>
        <li>提交入会申请表</li>
        <li>提交企业营业执照副本复印件</li>
        <li>提交企业资质证书复印件</li>
        <li>协会审核通过后，缴纳会费</li>
        <li>颁发会员证书</li>
    </ol>
</div>`
