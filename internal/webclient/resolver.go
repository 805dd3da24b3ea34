package webclient

import "strings"

// Address 解析后的URL组成部分
// 仅当原始字符串包含 "://" 分隔符时各字段才有效,
// 否则全部为空,调用方必须在使用前检查Host是否非空
type Address struct {
	Scheme string // 协议 (http/https)
	Host   string // 主机名
	Port   string // 端口 (可选)
	Path   string // 路径
	Query  string // 查询串 (可选,不含'?')
}

// ParseAddress 解析绝对URL字符串
// 永不失败: 无法解析时返回全空Address,以空值而非错误表达"解析失败"
func ParseAddress(rawURL string) Address {
	var addr Address

	schemeEnd := strings.Index(rawURL, "://")
	if schemeEnd == -1 {
		return addr
	}

	addr.Scheme = rawURL[:schemeEnd]
	rest := rawURL[schemeEnd+3:]

	// 主机部分在首个'/'处结束,没有'/'时在首个'?'处结束
	hostEnd := strings.Index(rest, "/")
	if hostEnd == -1 {
		hostEnd = strings.Index(rest, "?")
	}

	hostPort := rest
	if hostEnd != -1 {
		hostPort = rest[:hostEnd]
		rest = rest[hostEnd:]
	} else {
		rest = ""
	}

	if portStart := strings.Index(hostPort, ":"); portStart != -1 {
		addr.Host = hostPort[:portStart]
		addr.Port = hostPort[portStart+1:]
	} else {
		addr.Host = hostPort
	}

	if queryStart := strings.Index(rest, "?"); queryStart != -1 {
		addr.Path = rest[:queryStart]
		addr.Query = rest[queryStart+1:]
	} else {
		addr.Path = rest
	}

	return addr
}

// Authority 返回 scheme://host[:port]
func (a Address) Authority() string {
	authority := a.Scheme + "://" + a.Host
	if a.Port != "" {
		authority += ":" + a.Port
	}
	return authority
}

// Resolve 将图片引用与页面基础URL合并为绝对URL
// 四种相对形式按固定顺序判断,顺序不可调换:
// 根相对引用同样不满足"已是绝对URL"的判断,必须先于路径相对兜底处理
func Resolve(baseURL, ref string) string {
	// 1. 已是绝对URL
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base := ParseAddress(baseURL)

	// 2. 协议相对 (//host/path)
	if strings.HasPrefix(ref, "//") {
		return base.Scheme + ":" + ref
	}

	// 3. 根相对 (/a/b)
	if strings.HasPrefix(ref, "/") {
		return base.Authority() + ref
	}

	// 4. 路径相对: 基础路径截断到最后一个'/'之后
	dir := base.Path
	if lastSlash := strings.LastIndex(dir, "/"); lastSlash != -1 {
		dir = dir[:lastSlash+1]
	} else {
		dir = "/"
	}
	return base.Authority() + dir + ref
}
